package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role is a per-operation capability tag, not a hierarchy.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents an account. Location is optional for admins but required
// for regular users before they can run a nearest-hospital search.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'USER';index" json:"role"`
	Latitude  *float64  `gorm:"type:double precision" json:"latitude,omitempty"`
	Longitude *float64  `gorm:"type:double precision" json:"longitude,omitempty"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasLocation reports whether both coordinates are set.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
