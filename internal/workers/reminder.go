package workers

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"diagnostic-center-server/internal/models"
	"diagnostic-center-server/internal/notify"
)

// AppointmentReminder raises reminder notifications for upcoming
// confirmed appointments.
type AppointmentReminder struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
	Logger   *zap.Logger
}

// NewAppointmentReminder creates a new appointment reminder service
func NewAppointmentReminder(db *gorm.DB, notifier *notify.Notifier, logger *zap.Logger) *AppointmentReminder {
	return &AppointmentReminder{DB: db, Notifier: notifier, Logger: logger}
}

// StartReminderCron starts the cron job that checks for appointments
// needing reminders.
func (ar *AppointmentReminder) StartReminderCron(intervalMinutes int) *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.Local)

	scheduler.Every(intervalMinutes).Minutes().Do(func() {
		if err := ar.SendAppointmentReminders(); err != nil {
			ar.Logger.Error("appointment reminder run failed", zap.Error(err))
		}
	})

	scheduler.StartAsync()
	ar.Logger.Info("appointment reminder cron started",
		zap.Int("interval_minutes", intervalMinutes))

	return scheduler
}

// SendAppointmentReminders raises one reminder per confirmed
// appointment scheduled for tomorrow that has not been reminded yet.
func (ar *AppointmentReminder) SendAppointmentReminders() error {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var appointments []models.Appointment
	err := ar.DB.Preload("Doctor").
		Where("appointment_date = ? AND status = ? AND reminder_sent = ?",
			tomorrow, models.StatusConfirmed, false).
		Find(&appointments).Error
	if err != nil {
		return fmt.Errorf("fetching appointments for reminders: %w", err)
	}

	for _, appt := range appointments {
		if appt.PatientUserID != "" {
			ar.Notifier.Notify(appt.PatientUserID, models.NotifyAppointmentReminder,
				"Appointment reminder",
				fmt.Sprintf("Your appointment with %s is tomorrow at %s.", appt.Doctor.Name, appt.AppointmentTime))
		} else {
			// Guest bookings have no inbox; the delivery stub is the log line.
			ar.Logger.Info("reminder for guest booking (stub)",
				zap.String("appointment_id", appt.ID),
				zap.String("phone", appt.PatientPhone))
		}

		if err := ar.DB.Model(&models.Appointment{}).
			Where("id = ?", appt.ID).
			Update("reminder_sent", true).Error; err != nil {
			ar.Logger.Error("failed to mark reminder sent",
				zap.String("appointment_id", appt.ID), zap.Error(err))
		}
	}

	if len(appointments) > 0 {
		ar.Logger.Info("appointment reminders raised", zap.Int("count", len(appointments)))
	}
	return nil
}
