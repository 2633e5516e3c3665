package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"diagnostic-center-server/internal/models"
	"diagnostic-center-server/internal/notify"
	"diagnostic-center-server/internal/utils"
)

// ContactHandler handles the marketing-page contact form.
type ContactHandler struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(db *gorm.DB, notifier *notify.Notifier) *ContactHandler {
	return &ContactHandler{DB: db, Notifier: notifier}
}

// ContactRequest represents a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

// SubmitContact stores the message and triggers the (stubbed) contact
// notification email.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	message := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}

	if err := h.DB.Create(&message).Error; err != nil {
		utils.InternalServerError(c, "Failed to store contact message: "+err.Error())
		return
	}

	h.Notifier.SendContactEmail(&message)
	h.Notifier.NotifyAdmins(models.NotifyContactMessage,
		"New contact message",
		fmt.Sprintf("%s (%s): %s", message.Name, message.Email, message.Message))

	utils.Created(c, "Message received, we will get back to you shortly", gin.H{"id": message.ID})
}
