package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"diagnostic-center-server/internal/authz"
	"diagnostic-center-server/internal/lifecycle"
	"diagnostic-center-server/internal/metrics"
	"diagnostic-center-server/internal/middleware"
	"diagnostic-center-server/internal/models"
	"diagnostic-center-server/internal/notify"
	"diagnostic-center-server/internal/utils"
)

// CollectionHandler handles home sample-collection requests.
type CollectionHandler struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
	Metrics  *metrics.Collector
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(db *gorm.DB, notifier *notify.Notifier, collector *metrics.Collector) *CollectionHandler {
	return &CollectionHandler{DB: db, Notifier: notifier, Metrics: collector}
}

// CreateCollectionRequest represents the request body for booking a
// home collection.
type CreateCollectionRequest struct {
	PatientName   string   `json:"patientName" binding:"required"`
	PatientPhone  string   `json:"patientPhone" binding:"required"`
	PatientEmail  string   `json:"patientEmail" binding:"omitempty,email"`
	TestNames     []string `json:"testNames" binding:"required,min=1"`
	TotalAmount   float64  `json:"totalAmount"`
	Address       string   `json:"address" binding:"required"`
	PreferredDate string   `json:"preferredDate" binding:"required"`
	PreferredTime string   `json:"preferredTime" binding:"required"`
	Notes         string   `json:"notes"`
}

// CreateCollection books a home-collection request and writes the
// initial history entry.
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var req CreateCollectionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if _, err := time.Parse("2006-01-02", req.PreferredDate); err != nil {
		utils.BadRequest(c, "Invalid preferred date, expected YYYY-MM-DD")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)

	request := models.HomeCollectionRequest{
		PatientName:   req.PatientName,
		PatientPhone:  req.PatientPhone,
		PatientEmail:  req.PatientEmail,
		PatientUserID: userID,
		TestNames:     req.TestNames,
		TotalAmount:   req.TotalAmount,
		Address:       req.Address,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Notes:         req.Notes,
		Status:        models.CollectionRequested,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		return tx.Create(&models.CollectionStatusHistory{
			RequestID: request.ID,
			Status:    models.CollectionRequested,
			ActorID:   userID,
		}).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create collection request: "+err.Error())
		return
	}

	h.Metrics.CollectionsBooked.Inc()
	utils.Created(c, "Collection request created successfully", request)
}

// GetCollections lists collection requests. Patients see their own;
// staff see requests assigned to them; admins see everything.
func (h *CollectionHandler) GetCollections(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	caps := actor.Caps()
	switch {
	case caps.IsAdmin:
		// unrestricted
	case caps.IsStaff:
		query = query.Where("assigned_staff_id = ?", actor.ID)
	default:
		query = query.Where("patient_user_id = ?", actor.ID)
	}

	var requests []models.HomeCollectionRequest
	if err := query.Find(&requests).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch collection requests: "+err.Error())
		return
	}

	utils.Success(c, "Collection requests fetched successfully", requests)
}

// GetCollectionByID fetches a single request.
func (h *CollectionHandler) GetCollectionByID(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var request models.HomeCollectionRequest
	if err := h.DB.First(&request, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Collection request not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !h.canView(actor.Caps(), actor.ID, &request) {
		utils.Forbidden(c, "You are not authorized to view this request")
		return
	}

	utils.Success(c, "Collection request fetched successfully", request)
}

// GetCollectionHistory returns the append-only status log of a request.
func (h *CollectionHandler) GetCollectionHistory(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var request models.HomeCollectionRequest
	if err := h.DB.First(&request, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Collection request not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !h.canView(actor.Caps(), actor.ID, &request) {
		utils.Forbidden(c, "You are not authorized to view this request")
		return
	}

	var history []models.CollectionStatusHistory
	if err := h.DB.Where("request_id = ?", request.ID).Order("created_at asc").Find(&history).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch history: "+err.Error())
		return
	}

	utils.Success(c, "History fetched successfully", history)
}

// AssignStaffRequest represents the request body for assigning staff.
type AssignStaffRequest struct {
	StaffID string `json:"staffId" binding:"required,uuid"`
	Notes   string `json:"notes"`
}

// AssignStaff assigns (or reassigns) a staff member to a request. The
// target must currently hold the staff role.
func (h *CollectionHandler) AssignStaff(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req AssignStaffRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var request models.HomeCollectionRequest
	if err := h.DB.First(&request, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Collection request not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	staff, err := models.LoadUserWithRoles(h.DB, req.StaffID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Staff user not found")
		} else {
			utils.InternalServerError(c, "Database error verifying staff: "+err.Error())
		}
		return
	}

	readVersion := request.Version
	if err := lifecycle.AssignStaff(&request, staff.ID, staff.RoleSet(), actor, time.Now()); err != nil {
		h.writeTransitionError(c, err)
		return
	}

	if err := h.persistTransition(&request, readVersion, actor.ID, req.Notes); err != nil {
		h.writeTransitionError(c, err)
		return
	}

	h.Metrics.CollectionTransitions.WithLabelValues(string(models.CollectionAssigned)).Inc()
	h.Notifier.Notify(staff.ID, models.NotifyCollectionUpdate,
		"Collection assigned to you",
		fmt.Sprintf("Home collection for %s on %s %s.", request.PatientName, request.PreferredDate, request.PreferredTime))

	utils.Success(c, "Staff assigned successfully", request)
}

// UpdateCollectionStatusRequest represents the request body for
// advancing a request.
type UpdateCollectionStatusRequest struct {
	Status models.CollectionStatus `json:"status" binding:"required,oneof=collected processing ready"`
	Notes  string                  `json:"notes"`
}

// UpdateCollectionStatus advances a request one step along the status
// sequence. Only the assigned staff member or an admin may advance.
func (h *CollectionHandler) UpdateCollectionStatus(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateCollectionStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var request models.HomeCollectionRequest
	if err := h.DB.First(&request, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Collection request not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	readVersion := request.Version
	if err := lifecycle.AdvanceCollection(&request, req.Status, actor); err != nil {
		h.writeTransitionError(c, err)
		return
	}

	if err := h.persistTransition(&request, readVersion, actor.ID, req.Notes); err != nil {
		h.writeTransitionError(c, err)
		return
	}

	h.Metrics.CollectionTransitions.WithLabelValues(string(request.Status)).Inc()
	if request.PatientUserID != "" {
		kind := models.NotifyCollectionUpdate
		title := "Collection update"
		if request.Status == models.CollectionReady {
			kind = models.NotifyReportReady
			title = "Your reports are ready"
		}
		h.Notifier.Notify(request.PatientUserID, kind, title,
			fmt.Sprintf("Your home collection request is now %s.", request.Status))
	}

	utils.Success(c, "Collection status updated successfully", request)
}

// RescheduleCollectionRequest represents the request body for an
// admin reschedule.
type RescheduleCollectionRequest struct {
	PreferredDate string `json:"preferredDate" binding:"required"`
	PreferredTime string `json:"preferredTime" binding:"required"`
}

// RescheduleCollection changes the preferred date/time without
// changing the status.
func (h *CollectionHandler) RescheduleCollection(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req RescheduleCollectionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if _, err := time.Parse("2006-01-02", req.PreferredDate); err != nil {
		utils.BadRequest(c, "Invalid preferred date, expected YYYY-MM-DD")
		return
	}

	var request models.HomeCollectionRequest
	if err := h.DB.First(&request, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Collection request not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := lifecycle.RescheduleCollection(&request, req.PreferredDate, req.PreferredTime, actor); err != nil {
		h.writeTransitionError(c, err)
		return
	}

	// Reschedule is not a status change, so no history row is written.
	if err := h.DB.Model(&models.HomeCollectionRequest{}).
		Where("id = ?", request.ID).
		Updates(map[string]interface{}{
			"preferred_date": request.PreferredDate,
			"preferred_time": request.PreferredTime,
		}).Error; err != nil {
		utils.InternalServerError(c, "Failed to reschedule: "+err.Error())
		return
	}

	if request.PatientUserID != "" {
		h.Notifier.Notify(request.PatientUserID, models.NotifyCollectionUpdate,
			"Collection rescheduled",
			fmt.Sprintf("Your home collection was moved to %s %s.", request.PreferredDate, request.PreferredTime))
	}

	utils.Success(c, "Collection rescheduled successfully", request)
}

// persistTransition writes the history entry and the status columns in
// one transaction, history first. The status write is conditional on
// the version the row was read at.
func (h *CollectionHandler) persistTransition(r *models.HomeCollectionRequest, readVersion int64, actorID, notes string) error {
	r.Version = readVersion + 1
	return h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.CollectionStatusHistory{
			RequestID: r.ID,
			Status:    r.Status,
			Notes:     notes,
			ActorID:   actorID,
		}).Error; err != nil {
			return err
		}

		result := tx.Model(&models.HomeCollectionRequest{}).
			Where("id = ? AND version = ?", r.ID, readVersion).
			Updates(map[string]interface{}{
				"status":            r.Status,
				"assigned_staff_id": r.AssignedStaffID,
				"assigned_at":       r.AssignedAt,
				"assigned_by":       r.AssignedBy,
				"version":           r.Version,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// rolls back the history row as well
			return lifecycle.ErrConcurrentModification
		}
		return nil
	})
}

// canView: admins see everything, staff see their assignments,
// patients see their own requests.
func (h *CollectionHandler) canView(caps authz.Capabilities, actorID string, r *models.HomeCollectionRequest) bool {
	if caps.IsAdmin {
		return true
	}
	if caps.IsStaff && r.AssignedStaffID == actorID {
		return true
	}
	return r.PatientUserID != "" && r.PatientUserID == actorID
}

// writeTransitionError maps lifecycle errors to HTTP responses.
func (h *CollectionHandler) writeTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrUnauthorized):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidStaff),
		errors.Is(err, lifecycle.ErrWrongAssignee):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrConcurrentModification):
		utils.Conflict(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
