package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ValidAppointmentStatus reports whether s is a known status.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment represents a scheduled doctor appointment. The date is a
// plain calendar date and the time one of the doctor's generated slot
// labels, so slot comparison is a string match.
type Appointment struct {
	BaseModel
	PatientName     string `gorm:"size:255;not null" json:"patientName"`
	PatientPhone    string `gorm:"size:20;not null" json:"patientPhone"`
	PatientEmail    string `gorm:"size:255" json:"patientEmail,omitempty"`
	PatientUserID   string `gorm:"size:36;index" json:"patientUserId,omitempty"` // set when booked by a logged-in patient
	DoctorID        string `gorm:"size:36;index" json:"doctorId"`
	AppointmentDate string `gorm:"size:10;index" json:"appointmentDate"` // "2026-01-10"
	AppointmentTime string `gorm:"size:8" json:"appointmentTime"`        // slot label, e.g. "09:30"

	Status AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	Reason string            `gorm:"size:255" json:"reason,omitempty"`
	Notes  string            `gorm:"type:text" json:"notes,omitempty"`

	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy        string     `gorm:"size:36" json:"cancelledBy,omitempty"`
	CancellationReason string     `gorm:"size:255" json:"cancellationReason,omitempty"`

	ReminderSent bool `gorm:"default:false" json:"-"`

	// Version guards concurrent status updates: a transition only
	// applies when the row still carries the version it was read at.
	Version int64 `gorm:"default:0" json:"version"`

	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"-"`
}
