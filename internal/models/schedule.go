package models

import "time"

// Schedule status lifecycle: scheduled -> in_progress -> completed/cancelled
const (
	ScheduleStatusScheduled  = "scheduled"
	ScheduleStatusInProgress = "in_progress"
	ScheduleStatusCompleted  = "completed"
	ScheduleStatusCancelled  = "cancelled"
)

// Schedule is a planned maintenance visit assigning one technician to one
// lift on one date. Deleting a lift cascades to its schedules.
type Schedule struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	LiftID        uint      `gorm:"not null;index" json:"lift_id"`
	Lift          *Lift     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TechnicianID  uint      `gorm:"not null;index" json:"technician_id"`
	Technician    *User     `gorm:"foreignKey:TechnicianID" json:"-"`
	ScheduledDate string    `gorm:"type:date;not null" json:"scheduled_date"`
	Status        string    `gorm:"default:'scheduled'" json:"status"`
	Notes         string    `json:"notes"`
	CreatedBy     uint      `json:"created_by"`
	Creator       *User     `gorm:"foreignKey:CreatedBy" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for Schedule model
func (Schedule) TableName() string {
	return "schedules"
}

// ValidScheduleStatus reports whether s is a known schedule status
func ValidScheduleStatus(s string) bool {
	switch s {
	case ScheduleStatusScheduled, ScheduleStatusInProgress,
		ScheduleStatusCompleted, ScheduleStatusCancelled:
		return true
	}
	return false
}
