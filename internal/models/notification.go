package models

// NotificationKind categorizes notifications for display and routing.
type NotificationKind string

const (
	NotifyAppointmentConfirmed NotificationKind = "appointment_confirmed"
	NotifyAppointmentCancelled NotificationKind = "appointment_cancelled"
	NotifyAppointmentReminder  NotificationKind = "appointment_reminder"
	NotifyCollectionUpdate     NotificationKind = "collection_update"
	NotifyReportReady          NotificationKind = "report_ready"
	NotifyContactMessage       NotificationKind = "contact_message"
)

// Notification is a per-user notification record. Raising the record is
// the system's responsibility; delivery (email/SMS/WhatsApp) is stubbed
// and only logged.
type Notification struct {
	BaseModel
	UserID string           `gorm:"size:36;index" json:"userId"`
	Kind   NotificationKind `gorm:"size:40" json:"kind"`
	Title  string           `gorm:"size:255" json:"title"`
	Body   string           `gorm:"type:text" json:"body"`
	IsRead bool             `gorm:"default:false" json:"isRead"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// ContactMessage stores a marketing-page contact form submission.
type ContactMessage struct {
	BaseModel
	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255" json:"email"`
	Phone   string `gorm:"size:20" json:"phone"`
	Message string `gorm:"type:text;not null" json:"message"`
}
