package models

import "time"

// Role values stored on User.Role
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleTeknisi    = "teknisi"
)

// User represents a system account. Deactivating (Active=false) blocks
// login but preserves history; rows are only hard-deleted by superadmin.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"not null" json:"role"`
	Phone     string    `json:"phone"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// ValidRole reports whether r is one of the known roles
func ValidRole(r string) bool {
	return r == RoleSuperadmin || r == RoleAdmin || r == RoleTeknisi
}
