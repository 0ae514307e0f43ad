package catalog

import "time"

type Material struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_materials_name" json:"name"`
	Emoji     string    `json:"emoji"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type Video struct {
	ID              string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	VideoURL        string     `gorm:"not null" json:"video_url"`
	RecommendedAge  string     `json:"recommended_age"`
	DurationMinutes int        `json:"duration_minutes"`
	Description     string     `json:"description"`
	Thumbnail       string     `json:"thumbnail"`
	Materials       []Material `gorm:"many2many:video_materials;" json:"materials"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
}

// MaterialIDs returns the ids of the materials the video uses.
func (v Video) MaterialIDs() []string {
	ids := make([]string, 0, len(v.Materials))
	for _, m := range v.Materials {
		ids = append(ids, m.ID)
	}
	return ids
}
