package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"diagnostic-center-server/internal/models"
	"diagnostic-center-server/internal/scheduling"
	"diagnostic-center-server/internal/utils"
)

// DoctorHandler handles doctor management and slot lookups.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// CreateDoctorRequest represents the request body for adding a doctor.
type CreateDoctorRequest struct {
	Name               string  `json:"name" binding:"required"`
	Specialty          string  `json:"specialty" binding:"required"`
	Qualification      string  `json:"qualification"`
	ExperienceYears    int     `json:"experienceYears"`
	ConsultationFee    float64 `json:"consultationFee"`
	AvailableFrom      string  `json:"availableFrom" binding:"required"`
	AvailableTo        string  `json:"availableTo" binding:"required"`
	SlotDuration       int     `json:"slotDuration" binding:"required,gt=0"`
	MaxPatientsPerSlot int     `json:"maxPatientsPerSlot"`
	AvailableDays      string  `json:"availableDays" binding:"required"`
}

// CreateDoctor handles adding a doctor (admin).
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// Reject working windows that cannot produce a single slot
	if _, err := scheduling.GenerateSlots(req.AvailableFrom, req.AvailableTo, req.SlotDuration); err != nil {
		utils.BadRequest(c, "Invalid working window: "+err.Error())
		return
	}

	maxPerSlot := req.MaxPatientsPerSlot
	if maxPerSlot <= 0 {
		maxPerSlot = 1
	}

	doctor := models.Doctor{
		Name:               req.Name,
		Specialty:          req.Specialty,
		Qualification:      req.Qualification,
		ExperienceYears:    req.ExperienceYears,
		ConsultationFee:    req.ConsultationFee,
		AvailableFrom:      req.AvailableFrom,
		AvailableTo:        req.AvailableTo,
		SlotDuration:       req.SlotDuration,
		MaxPatientsPerSlot: maxPerSlot,
		AvailableDays:      req.AvailableDays,
		IsActive:           true,
	}

	if err := h.DB.Create(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to create doctor: "+err.Error())
		return
	}

	utils.Created(c, "Doctor created successfully", doctor)
}

// GetDoctors handles listing active doctors. Admins see inactive ones
// with ?all=true.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	query := h.DB.Order("name asc")
	if c.Query("all") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if specialty := c.Query("specialty"); specialty != "" {
		query = query.Where("specialty = ?", specialty)
	}

	var doctors []models.Doctor
	if err := query.Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	utils.Success(c, "Doctors fetched successfully", doctors)
}

// GetDoctorByID handles fetching a single doctor.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Doctor fetched successfully", doctor)
}

// UpdateDoctorRequest represents the request body for updating a doctor.
type UpdateDoctorRequest struct {
	Name               *string  `json:"name"`
	Specialty          *string  `json:"specialty"`
	Qualification      *string  `json:"qualification"`
	ExperienceYears    *int     `json:"experienceYears"`
	ConsultationFee    *float64 `json:"consultationFee"`
	AvailableFrom      *string  `json:"availableFrom"`
	AvailableTo        *string  `json:"availableTo"`
	SlotDuration       *int     `json:"slotDuration"`
	MaxPatientsPerSlot *int     `json:"maxPatientsPerSlot"`
	AvailableDays      *string  `json:"availableDays"`
	IsActive           *bool    `json:"isActive"`
}

// UpdateDoctor handles updating a doctor (admin).
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Specialty != nil {
		doctor.Specialty = *req.Specialty
	}
	if req.Qualification != nil {
		doctor.Qualification = *req.Qualification
	}
	if req.ExperienceYears != nil {
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.AvailableFrom != nil {
		doctor.AvailableFrom = *req.AvailableFrom
	}
	if req.AvailableTo != nil {
		doctor.AvailableTo = *req.AvailableTo
	}
	if req.SlotDuration != nil {
		doctor.SlotDuration = *req.SlotDuration
	}
	if req.MaxPatientsPerSlot != nil && *req.MaxPatientsPerSlot > 0 {
		doctor.MaxPatientsPerSlot = *req.MaxPatientsPerSlot
	}
	if req.AvailableDays != nil {
		doctor.AvailableDays = *req.AvailableDays
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}

	if _, err := scheduling.GenerateSlots(doctor.AvailableFrom, doctor.AvailableTo, doctor.SlotDuration); err != nil {
		utils.BadRequest(c, "Invalid working window: "+err.Error())
		return
	}

	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update doctor: "+err.Error())
		return
	}

	utils.Success(c, "Doctor updated successfully", doctor)
}

// DeleteDoctor handles deactivating a doctor (admin). Doctors with
// appointment history are kept as inactive rows, never hard-deleted.
func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	result := h.DB.Model(&models.Doctor{}).Where("id = ?", c.Param("id")).Update("is_active", false)
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to deactivate doctor: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Doctor not found")
		return
	}
	utils.Success(c, "Doctor deactivated successfully", nil)
}

// SlotsResponse is the availability payload for a doctor and date.
type SlotsResponse struct {
	Date           string   `json:"date"`
	AllSlots       []string `json:"allSlots"`
	AvailableSlots []string `json:"availableSlots"`
}

// GetDoctorSlots computes the free slots for a doctor on a date:
// generate the full list from the working window, then subtract slots
// whose non-cancelled booking count has reached the per-slot cap.
func (h *DoctorHandler) GetDoctorSlots(c *gin.Context) {
	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.BadRequest(c, "Invalid or missing date, expected YYYY-MM-DD")
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ? AND is_active = ?", c.Param("id"), true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !doctor.AvailableOn(date.Weekday()) {
		utils.Success(c, "Doctor is not available on this day", SlotsResponse{Date: dateStr})
		return
	}

	allSlots, err := scheduling.GenerateSlots(doctor.AvailableFrom, doctor.AvailableTo, doctor.SlotDuration)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate slots: "+err.Error())
		return
	}

	booked, err := bookedSlotCounts(h.DB, doctor.ID, dateStr)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch bookings: "+err.Error())
		return
	}

	utils.Success(c, "Slots fetched successfully", SlotsResponse{
		Date:           dateStr,
		AllSlots:       allSlots,
		AvailableSlots: scheduling.AvailableSlots(allSlots, booked, doctor.MaxPatientsPerSlot),
	})
}

// bookedSlotCounts counts non-cancelled appointments per slot label for
// a doctor and date.
func bookedSlotCounts(db *gorm.DB, doctorID, date string) (map[string]int, error) {
	var rows []struct {
		AppointmentTime string
		Count           int
	}
	err := db.Model(&models.Appointment{}).
		Select("appointment_time, count(*) as count").
		Where("doctor_id = ? AND appointment_date = ? AND status <> ?", doctorID, date, models.StatusCancelled).
		Group("appointment_time").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.AppointmentTime] = row.Count
	}
	return counts, nil
}
