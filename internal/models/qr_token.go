package models

import "time"

// QRToken is the standing per-lift access capability behind a printed QR
// decal. At most one active row exists per lift; the token is the
// discoverable artifact, the PIN is the secret.
type QRToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	LiftID    uint       `gorm:"not null;index" json:"lift_id"`
	Lift      *Lift      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Token     string     `gorm:"unique;not null" json:"token"`
	Pin       string     `gorm:"not null" json:"-"`
	CreatedBy uint       `json:"created_by"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Active    bool       `gorm:"default:true" json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName specifies the table name for QRToken model
func (QRToken) TableName() string {
	return "qr_tokens"
}

// Expired reports whether the token is past its optional expiry
func (t *QRToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}
