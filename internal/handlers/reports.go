package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"diagnostic-center-server/internal/lifecycle"
	"diagnostic-center-server/internal/metrics"
	"diagnostic-center-server/internal/middleware"
	"diagnostic-center-server/internal/models"
	"diagnostic-center-server/internal/utils"
)

// ReportHandler handles result-file uploads and downloads.
type ReportHandler struct {
	DB      *gorm.DB
	Metrics *metrics.Collector
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(db *gorm.DB, collector *metrics.Collector) *ReportHandler {
	return &ReportHandler{DB: db, Metrics: collector}
}

// UploadReport attaches a result file to a collection request.
// Stores the file as binary data in the database. Uploads are only
// accepted once the sample has been collected.
func (h *ReportHandler) UploadReport(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if !actor.Caps().IsStaff {
		utils.Forbidden(c, "Only staff or admin may upload reports")
		return
	}

	var request models.HomeCollectionRequest
	if err := h.DB.First(&request, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Collection request not found")
		} else {
			utils.InternalServerError(c, "Database error verifying collection request: "+err.Error())
		}
		return
	}

	if !lifecycle.CanAttachReport(&request) {
		utils.Conflict(c, "Reports can only be uploaded once the sample has been collected")
		return
	}

	file, header, err := c.Request.FormFile("file") // "file" is the name of the form field
	if err != nil {
		utils.BadRequest(c, "Error retrieving file from form: "+err.Error())
		return
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerError(c, "Error reading file content: "+err.Error())
		return
	}

	report := models.Report{
		RequestID:  request.ID,
		PatientID:  request.PatientUserID,
		UploadedBy: actor.ID,
		FileName:   header.Filename,
		FileType:   header.Header.Get("Content-Type"),
		FileData:   fileData,
	}

	if err := h.DB.Create(&report).Error; err != nil {
		utils.InternalServerError(c, "Failed to create report entry: "+err.Error())
		return
	}

	h.Metrics.ReportsUploaded.Inc()

	// Return a slimmed down version of the report, without the FileData
	responseReport := struct {
		ID         string    `json:"id"`
		RequestID  string    `json:"requestId"`
		FileName   string    `json:"fileName"`
		FileType   string    `json:"fileType"`
		UploadedBy string    `json:"uploadedBy"`
		CreatedAt  time.Time `json:"createdAt"`
	}{
		ID:         report.ID,
		RequestID:  report.RequestID,
		FileName:   report.FileName,
		FileType:   report.FileType,
		UploadedBy: report.UploadedBy,
		CreatedAt:  report.CreatedAt,
	}

	utils.Success(c, "Report uploaded successfully", responseReport)
}

// GetReports lists reports. Patients see their own; staff and admin
// see all, optionally filtered by request.
func (h *ReportHandler) GetReports(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Order("created_at desc")
	if requestID := c.Query("requestId"); requestID != "" {
		query = query.Where("request_id = ?", requestID)
	}
	if !actor.Caps().IsStaff {
		query = query.Where("patient_id = ?", actor.ID)
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch reports: "+err.Error())
		return
	}

	utils.Success(c, "Reports fetched successfully", reports)
}

// GetReportFile streams a report's file content.
func (h *ReportHandler) GetReportFile(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var report models.Report
	if err := h.DB.First(&report, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Report not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !actor.Caps().IsStaff && report.PatientID != actor.ID {
		utils.Forbidden(c, "You are not authorized to download this report")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+report.FileName+"\"")
	c.Data(200, report.FileType, report.FileData)
}
