package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// ValidBookingStatus reports whether s is one of the known states.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusActive, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// BookingType distinguishes normal from emergency dispatch requests.
// EMERGENCY carries no differential scheduling yet; it is recorded as an
// extension point.
type BookingType string

const (
	BookingTypeNormal    BookingType = "NORMAL"
	BookingTypeEmergency BookingType = "EMERGENCY"
)

func ValidBookingType(t BookingType) bool {
	return t == BookingTypeNormal || t == BookingTypeEmergency
}

// Patient is the embedded patient record on a booking. All fields are
// required and validated by the booking engine.
type Patient struct {
	Name      string `gorm:"column:patient_name;type:varchar(255);not null" json:"name"`
	Age       int    `gorm:"column:patient_age;not null" json:"age"`
	Gender    string `gorm:"column:patient_gender;type:varchar(50);not null" json:"gender"`
	Condition string `gorm:"column:patient_condition;type:text;not null" json:"condition"`
}

// Booking holds an ambulance exclusively for its ACTIVE lifetime: the
// ambulance must have been AVAILABLE at creation and no second ACTIVE
// booking may reference it. Terminal states are immutable.
type Booking struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	HospitalID  int64         `gorm:"not null;index" json:"hospitalId"`
	AmbulanceID int64         `gorm:"not null;index" json:"ambulanceId"`
	BookingType BookingType   `gorm:"type:varchar(20);not null;default:'NORMAL'" json:"bookingType"`
	Patient     Patient       `gorm:"embedded" json:"patient"`
	Status      BookingStatus `gorm:"column:booking_status;type:varchar(20);not null;default:'ACTIVE';index" json:"bookingStatus"`
	BookingTime time.Time     `gorm:"autoCreateTime" json:"bookingTime"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Hospital  Hospital  `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
	Ambulance Ambulance `gorm:"foreignKey:AmbulanceID" json:"ambulance,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusActive
}

// IsTerminal reports whether the booking reached COMPLETED or CANCELLED.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}
