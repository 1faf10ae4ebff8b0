package models

import "time"

// Lift type discriminators, shared with checklist templates and reports
const (
	LiftTypeCargo     = "cargo"
	LiftTypePassenger = "passenger"
)

// Lift is an elevator asset under maintenance contract
type Lift struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Type      string    `gorm:"not null" json:"type"`
	Merk      string    `json:"merk"`
	Model     string    `json:"model"`
	Cabang    string    `json:"cabang"`
	Location  string    `json:"location"`
	Floors    int       `json:"floors"`
	Status    string    `gorm:"default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Lift model
func (Lift) TableName() string {
	return "lifts"
}

// ValidLiftType reports whether t is a known lift type
func ValidLiftType(t string) bool {
	return t == LiftTypeCargo || t == LiftTypePassenger
}
