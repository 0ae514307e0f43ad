package users

import "time"

// Session is one login. The JWT handed to the client carries its ID; logout
// revokes it.
type Session struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	UserID    string `gorm:"type:varchar(128);not null;index"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// ActiveAt reports whether the session is usable at now.
func (s Session) ActiveAt(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
