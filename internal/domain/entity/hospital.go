package entity

import "time"

// Hospital owns its ambulance fleet (one-to-many, removal cascades).
type Hospital struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Address     string    `gorm:"type:text;not null" json:"address"`
	Latitude    float64   `gorm:"type:double precision;not null" json:"latitude"`
	Longitude   float64   `gorm:"type:double precision;not null" json:"longitude"`
	ContactInfo string    `gorm:"type:varchar(255)" json:"contactInfo"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Ambulances []Ambulance `gorm:"foreignKey:HospitalID" json:"ambulances,omitempty"`
}

func (Hospital) TableName() string {
	return "hospitals"
}
