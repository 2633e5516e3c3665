package models

import (
	"strings"
	"time"
)

// Doctor represents a consulting doctor at the diagnostic center.
// The working window and slot duration drive slot generation; weekday
// availability is stored as a comma-joined list of weekday names.
type Doctor struct {
	BaseModel
	Name               string  `gorm:"size:255;not null" json:"name"`
	Specialty          string  `gorm:"size:100" json:"specialty"`
	Qualification      string  `gorm:"size:255" json:"qualification"`
	ExperienceYears    int     `json:"experienceYears"`
	ConsultationFee    float64 `json:"consultationFee"`
	AvailableFrom      string  `gorm:"size:5" json:"availableFrom"` // "09:00"
	AvailableTo        string  `gorm:"size:5" json:"availableTo"`   // "17:00"
	SlotDuration       int     `gorm:"default:30" json:"slotDuration"` // minutes
	MaxPatientsPerSlot int     `gorm:"default:1" json:"maxPatientsPerSlot"`
	AvailableDays      string  `gorm:"size:255" json:"availableDays"` // "Monday,Tuesday,..."
	IsActive           bool    `gorm:"default:true" json:"isActive"`

	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"-"`
}

// DaysList splits AvailableDays into individual weekday names.
func (d *Doctor) DaysList() []string {
	if d.AvailableDays == "" {
		return nil
	}
	parts := strings.Split(d.AvailableDays, ",")
	days := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			days = append(days, trimmed)
		}
	}
	return days
}

// AvailableOn reports whether the doctor works on the given weekday.
func (d *Doctor) AvailableOn(day time.Weekday) bool {
	for _, name := range d.DaysList() {
		if strings.EqualFold(name, day.String()) {
			return true
		}
	}
	return false
}
