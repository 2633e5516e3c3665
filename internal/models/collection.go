package models

import (
	"time"
)

// CollectionStatus represents the status of a home-collection request.
// Statuses are strictly ordered; a request only ever moves to the
// immediate successor.
type CollectionStatus string

const (
	CollectionRequested  CollectionStatus = "requested"
	CollectionAssigned   CollectionStatus = "assigned"
	CollectionCollected  CollectionStatus = "collected"
	CollectionProcessing CollectionStatus = "processing"
	CollectionReady      CollectionStatus = "ready"
)

// ValidCollectionStatus reports whether s is a known status.
func ValidCollectionStatus(s CollectionStatus) bool {
	switch s {
	case CollectionRequested, CollectionAssigned, CollectionCollected, CollectionProcessing, CollectionReady:
		return true
	}
	return false
}

// HomeCollectionRequest represents a home sample-collection booking.
type HomeCollectionRequest struct {
	BaseModel
	PatientName   string   `gorm:"size:255;not null" json:"patientName"`
	PatientPhone  string   `gorm:"size:20;not null" json:"patientPhone"`
	PatientEmail  string   `gorm:"size:255" json:"patientEmail,omitempty"`
	PatientUserID string   `gorm:"size:36;index" json:"patientUserId,omitempty"`
	TestNames     []string `gorm:"serializer:json;type:text" json:"testNames"`
	TotalAmount   float64  `json:"totalAmount"`
	Address       string   `gorm:"type:text;not null" json:"address"`
	PreferredDate string   `gorm:"size:10" json:"preferredDate"` // "2026-01-10"
	PreferredTime string   `gorm:"size:20" json:"preferredTime"`

	Status CollectionStatus `gorm:"size:20;default:'requested';index" json:"status"`

	// AssignedStaffID is empty only while the request is still
	// "requested"; once set it must reference a user holding the
	// staff role.
	AssignedStaffID string     `gorm:"size:36;index" json:"assignedStaffId,omitempty"`
	AssignedAt      *time.Time `json:"assignedAt,omitempty"`
	AssignedBy      string     `gorm:"size:36" json:"assignedBy,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	// Version guards concurrent status updates, same scheme as
	// Appointment.Version.
	Version int64 `gorm:"default:0" json:"version"`

	AssignedStaff *User                     `gorm:"foreignKey:AssignedStaffID" json:"-"`
	History       []CollectionStatusHistory `gorm:"foreignKey:RequestID" json:"history,omitempty"`
	Reports       []Report                  `gorm:"foreignKey:RequestID" json:"-"`
}

// CollectionStatusHistory is the append-only audit log of status
// changes. Rows are never updated or deleted.
type CollectionStatusHistory struct {
	BaseModel
	RequestID string           `gorm:"size:36;index;not null" json:"requestId"`
	Status    CollectionStatus `gorm:"size:20;not null" json:"status"`
	Notes     string           `gorm:"size:255" json:"notes,omitempty"`
	ActorID   string           `gorm:"size:36" json:"actorId"`
}
