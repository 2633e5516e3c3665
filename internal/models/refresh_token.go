package models

import (
	"time"
)

// RefreshToken is a stored, rotating JWT refresh token. Each refresh
// revokes the redeemed token and issues a fresh row.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Active reports whether the token can still be redeemed.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.IsRevoked && t.ExpiresAt.After(now)
}

// Revoke invalidates the token immediately.
func (t *RefreshToken) Revoke(now time.Time) {
	t.IsRevoked = true
	t.ExpiresAt = now
}
