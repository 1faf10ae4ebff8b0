package models

import (
	"time"

	"gorm.io/datatypes"
)

// Report is the completed checklist produced from a maintenance visit.
// Rows are append-only: no update or delete routes exist. TechnicianID is
// nil for anonymous QR-originated submissions (the sentinel identity).
type Report struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ScheduleID     *uint          `json:"schedule_id"`
	LiftID         uint           `gorm:"not null;index" json:"lift_id"`
	Lift           *Lift          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TechnicianID   *uint          `gorm:"index" json:"technician_id"`
	Technician     *User          `gorm:"foreignKey:TechnicianID" json:"-"`
	Type           string         `gorm:"not null" json:"type"`
	ChecklistData  datatypes.JSON `gorm:"not null" json:"checklist_data"`
	Remarks        string         `json:"remarks"`
	Temperature    string         `json:"temperature"`
	Voltage        string         `json:"voltage"`
	TechnicianSign string         `json:"technician_sign,omitempty"`
	ManagerSign    string         `json:"manager_sign,omitempty"`
	CustomerSign   string         `json:"customer_sign,omitempty"`
	CompletedAt    time.Time      `gorm:"autoCreateTime" json:"completed_at"`
}

// TableName specifies the table name for Report model
func (Report) TableName() string {
	return "reports"
}
