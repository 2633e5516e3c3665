package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"diagnostic-center-server/internal/lifecycle"
	"diagnostic-center-server/internal/metrics"
	"diagnostic-center-server/internal/middleware"
	"diagnostic-center-server/internal/models"
	"diagnostic-center-server/internal/notify"
	"diagnostic-center-server/internal/scheduling"
	"diagnostic-center-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
	Metrics  *metrics.Collector
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, notifier *notify.Notifier, collector *metrics.Collector) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Notifier: notifier, Metrics: collector}
}

// CreateAppointmentRequest represents the request body for booking an
// appointment.
type CreateAppointmentRequest struct {
	DoctorID        string `json:"doctorId" binding:"required,uuid"`
	PatientName     string `json:"patientName" binding:"required"`
	PatientPhone    string `json:"patientPhone" binding:"required"`
	PatientEmail    string `json:"patientEmail" binding:"omitempty,email"`
	AppointmentDate string `json:"appointmentDate" binding:"required"` // YYYY-MM-DD
	AppointmentTime string `json:"appointmentTime" binding:"required"` // slot label
	Reason          string `json:"reason"`
}

// CreateAppointment books an appointment. The requested time must be
// one of the doctor's generated slots for that date, and the booking
// transaction re-checks the slot count so a concurrent booking of the
// last place is rejected rather than overbooking.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		utils.BadRequest(c, "Invalid appointment date, expected YYYY-MM-DD")
		return
	}
	if date.Before(time.Now().Truncate(24 * time.Hour)) {
		utils.BadRequest(c, "Appointment date must not be in the past.")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ? AND is_active = ?", req.DoctorID, true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found or not active")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	if !doctor.AvailableOn(date.Weekday()) {
		utils.BadRequest(c, "Doctor is not available on "+date.Weekday().String())
		return
	}

	allSlots, err := scheduling.GenerateSlots(doctor.AvailableFrom, doctor.AvailableTo, doctor.SlotDuration)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate slots: "+err.Error())
		return
	}
	validSlot := false
	for _, slot := range allSlots {
		if slot == req.AppointmentTime {
			validSlot = true
			break
		}
	}
	if !validSlot {
		utils.BadRequest(c, "Requested time is not one of the doctor's slots")
		return
	}

	appointment := models.Appointment{
		PatientName:     req.PatientName,
		PatientPhone:    req.PatientPhone,
		PatientEmail:    req.PatientEmail,
		PatientUserID:   userID,
		DoctorID:        doctor.ID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Reason:          req.Reason,
		Status:          models.StatusPending,
	}

	// The count runs as a locking read so a concurrent booking of the
	// same slot blocks until this transaction commits, then re-counts
	// and sees the new row. A plain snapshot count would let both
	// writers through.
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status <> ?",
				doctor.ID, req.AppointmentDate, req.AppointmentTime, models.StatusCancelled).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count >= int64(doctor.MaxPatientsPerSlot) {
			return lifecycle.ErrSlotUnavailable
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		if errors.Is(err, lifecycle.ErrSlotUnavailable) {
			utils.Conflict(c, "Slot is no longer available, please pick another time")
		} else {
			utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		}
		return
	}

	h.Metrics.AppointmentsBooked.Inc()
	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointments handles fetching appointments for the logged-in
// user. Patients see their own bookings; staff and admin see all.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Preload("Doctor").Order("appointment_date asc, appointment_time asc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("appointment_date = ?", date)
	}

	if !actor.Caps().IsStaff {
		query = query.Where("patient_user_id = ?", actor.ID)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var appointment models.Appointment
	if err := h.DB.Preload("Doctor").First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !actor.Caps().IsStaff && appointment.PatientUserID != actor.ID {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentStatusRequest represents the request body for
// updating an appointment's status.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=confirmed completed cancelled"`
	Notes  string                   `json:"notes"` // optional notes or cancellation reason
}

// UpdateAppointmentStatus applies a status transition. The state
// machine validates the edge and the actor; the write is conditional
// on the version the row was read at, so a concurrent transition loses
// cleanly instead of being overwritten.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.Preload("Doctor").First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	readVersion := appointment.Version
	if err := lifecycle.TransitionAppointment(&appointment, req.Status, actor, req.Notes, time.Now()); err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrUnauthorized):
			utils.Forbidden(c, err.Error())
		case errors.Is(err, lifecycle.ErrInvalidTransition):
			utils.Conflict(c, err.Error())
		default:
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	appointment.Version = readVersion + 1
	result := h.DB.Model(&models.Appointment{}).
		Where("id = ? AND version = ?", appointment.ID, readVersion).
		Updates(map[string]interface{}{
			"status":              appointment.Status,
			"notes":               appointment.Notes,
			"cancelled_at":        appointment.CancelledAt,
			"cancelled_by":        appointment.CancelledBy,
			"cancellation_reason": appointment.CancellationReason,
			"version":             appointment.Version,
		})
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to update appointment status: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.Conflict(c, lifecycle.ErrConcurrentModification.Error())
		return
	}

	h.Metrics.AppointmentsByStatus.WithLabelValues(string(appointment.Status)).Inc()
	h.notifyStatusChange(&appointment)

	utils.Success(c, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) notifyStatusChange(a *models.Appointment) {
	if a.PatientUserID == "" {
		return
	}
	switch a.Status {
	case models.StatusConfirmed:
		h.Notifier.Notify(a.PatientUserID, models.NotifyAppointmentConfirmed,
			"Appointment confirmed",
			fmt.Sprintf("Your appointment on %s at %s is confirmed.", a.AppointmentDate, a.AppointmentTime))
	case models.StatusCancelled:
		h.Notifier.Notify(a.PatientUserID, models.NotifyAppointmentCancelled,
			"Appointment cancelled",
			fmt.Sprintf("Your appointment on %s at %s was cancelled.", a.AppointmentDate, a.AppointmentTime))
	}
}
