package videos

import (
	"time"

	"ecobrinca/internal/domain/access"
	"ecobrinca/internal/domain/catalog"
)

type MaterialDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	ImageURL string `json:"image_url,omitempty"`
}

// VideoDTO is the catalog card. The playable URL is only handed out by the
// watch endpoint, after the quota check.
type VideoDTO struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	RecommendedAge  string        `json:"recommended_age"`
	DurationMinutes int           `json:"duration_minutes"`
	Description     string        `json:"description"`
	Thumbnail       string        `json:"thumbnail"`
	Materials       []MaterialDTO `json:"materials"`
	CreatedAt       time.Time     `json:"created_at"`
}

type WatchResponse struct {
	Video    VideoDTO   `json:"video"`
	VideoURL string     `json:"video_url"`
	Access   *AccessDTO `json:"access,omitempty"`
}

type AccessDTO struct {
	State     string     `json:"state"`
	Remaining *int       `json:"remaining"`
	ResetsAt  *time.Time `json:"resets_at"`
}

type UpsellResponse struct {
	Error     string     `json:"error"`
	Upgrade   bool       `json:"upgrade"`
	Remaining int        `json:"remaining"`
	ResetsAt  *time.Time `json:"resets_at"`
}

func toMaterialDTO(m catalog.Material) MaterialDTO {
	return MaterialDTO{ID: m.ID, Name: m.Name, Emoji: m.Emoji, ImageURL: m.ImageURL}
}

func toMaterialDTOs(ms []catalog.Material) []MaterialDTO {
	out := make([]MaterialDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMaterialDTO(m))
	}
	return out
}

func toVideoDTO(v catalog.Video) VideoDTO {
	return VideoDTO{
		ID:              v.ID,
		Title:           v.Title,
		RecommendedAge:  v.RecommendedAge,
		DurationMinutes: v.DurationMinutes,
		Description:     v.Description,
		Thumbnail:       v.Thumbnail,
		Materials:       toMaterialDTOs(v.Materials),
		CreatedAt:       v.CreatedAt,
	}
}

func toVideoDTOs(vs []catalog.Video) []VideoDTO {
	out := make([]VideoDTO, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVideoDTO(v))
	}
	return out
}

func toAccessDTO(p access.Policy) AccessDTO {
	return AccessDTO{State: string(p.State), Remaining: p.Remaining, ResetsAt: p.ResetsAt}
}
