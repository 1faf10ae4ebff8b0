package models

import (
	"time"

	"gorm.io/datatypes"
)

// Draft holds in-progress checklist form state so a reload or lost
// connection does not discard work. OwnerKey scopes the draft to an
// identity ("user:<id>" or "qr:<liftID>"), FormKey to a schedule or lift
// ("schedule:<id>" / "lift:<id>"). Cleared on successful submit.
type Draft struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OwnerKey  string         `gorm:"not null;uniqueIndex:idx_drafts_owner_form" json:"owner_key"`
	FormKey   string         `gorm:"not null;uniqueIndex:idx_drafts_owner_form" json:"form_key"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Draft model
func (Draft) TableName() string {
	return "drafts"
}
