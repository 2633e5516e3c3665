// Package notify raises notification records and logs the (stubbed)
// outbound delivery. Real email/SMS/WhatsApp dispatch is out of scope;
// every channel ends at a log line.
package notify

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"diagnostic-center-server/internal/authz"
	"diagnostic-center-server/internal/config"
	"diagnostic-center-server/internal/models"
)

// Notifier writes notification rows and logs deliveries.
type Notifier struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *zap.Logger
}

// NewNotifier creates a new Notifier.
func NewNotifier(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *Notifier {
	return &Notifier{DB: db, Cfg: cfg, Logger: logger}
}

// Notify stores a notification for a user and logs the stubbed
// delivery. A failed insert is logged and swallowed: raising the
// notification must never fail the transition that triggered it.
func (n *Notifier) Notify(userID string, kind models.NotificationKind, title, body string) {
	record := models.Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
	}
	if err := n.DB.Create(&record).Error; err != nil {
		n.Logger.Error("failed to store notification",
			zap.String("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return
	}

	// SMS/WhatsApp delivery stub
	n.Logger.Info("notification raised",
		zap.String("user_id", userID),
		zap.String("kind", string(kind)),
		zap.String("title", title))
}

// NotifyAdmins raises the notification for every user currently
// holding an admin-capable role.
func (n *Notifier) NotifyAdmins(kind models.NotificationKind, title, body string) {
	var userIDs []string
	err := n.DB.Model(&models.UserRole{}).
		Distinct("user_id").
		Where("role IN ?", []authz.Role{authz.RoleSuperAdmin, authz.RoleAdmin, authz.RoleManager}).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		n.Logger.Error("failed to resolve admin recipients",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return
	}
	for _, id := range userIDs {
		n.Notify(id, kind, title, body)
	}
}

// SendContactEmail logs the contact-notification email that a real
// deployment would dispatch through the configured mailer transport.
func (n *Notifier) SendContactEmail(msg *models.ContactMessage) {
	n.Logger.Info("contact notification email (stub)",
		zap.String("transport", n.Cfg.Mailer.Transport),
		zap.String("from", n.Cfg.Mailer.DefaultFrom),
		zap.String("to", n.Cfg.Mailer.ContactTo),
		zap.String("sender_name", msg.Name),
		zap.String("sender_email", msg.Email),
		zap.String("sender_phone", msg.Phone))
}
