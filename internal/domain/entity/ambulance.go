package entity

import "time"

// AmbulanceStatus represents the operational state of an ambulance
type AmbulanceStatus string

const (
	AmbulanceStatusAvailable   AmbulanceStatus = "AVAILABLE"
	AmbulanceStatusOnDuty      AmbulanceStatus = "ON_DUTY"
	AmbulanceStatusMaintenance AmbulanceStatus = "MAINTENANCE"
)

// ValidAmbulanceStatus reports whether s is one of the three known states.
func ValidAmbulanceStatus(s AmbulanceStatus) bool {
	switch s {
	case AmbulanceStatusAvailable, AmbulanceStatusOnDuty, AmbulanceStatusMaintenance:
		return true
	}
	return false
}

// Ambulance belongs to exactly one hospital; the hospital reference is
// immutable after creation. Status is mutated only through the booking
// engine (AVAILABLE→ON_DUTY) and the lifecycle manager (release and admin
// overrides).
type Ambulance struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	HospitalID int64           `gorm:"not null;index;uniqueIndex:idx_ambulances_hospital_number" json:"hospitalId"`
	Number     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_ambulances_hospital_number" json:"number"`
	Status     AmbulanceStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
	DriverInfo string          `gorm:"type:varchar(255)" json:"driverInfo"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Hospital Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
}

func (Ambulance) TableName() string {
	return "ambulances"
}

func (a *Ambulance) IsAvailable() bool {
	return a.Status == AmbulanceStatusAvailable
}
