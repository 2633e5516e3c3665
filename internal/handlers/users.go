package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"diagnostic-center-server/internal/authz"
	"diagnostic-center-server/internal/models"
	"diagnostic-center-server/internal/utils"
)

// UserHandler handles user-related requests (typically admin operations).
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// CreateUserRequest represents the request body for creating a user by
// an admin. Staff accounts are created here with roles ["staff"].
type CreateUserRequest struct {
	FirstName   string   `json:"firstName" binding:"required"`
	LastName    string   `json:"lastName" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	PhoneNumber string   `json:"phoneNumber"`
	Roles       []string `json:"roles" binding:"required,min=1"`
}

// CreateUser handles creating a new user (admin).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	roles := make([]authz.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		role := authz.Role(r)
		if !authz.ValidRole(role) {
			utils.BadRequest(c, "Unknown role: "+r)
			return
		}
		roles = append(roles, role)
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.BadRequest(c, "User with this email already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	user := models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		for _, role := range roles {
			if err := tx.Create(&models.UserRole{UserID: user.ID, Role: role}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	created, err := models.LoadUserWithRoles(h.DB, user.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to reload user: "+err.Error())
		return
	}
	utils.Created(c, "User created successfully", created.Sanitize())
}

// GetUsers handles fetching all users (admin).
func (h *UserHandler) GetUsers(c *gin.Context) {
	var users []models.User
	query := h.DB.Preload("Roles")

	// Optional filter by held role, e.g. ?role=staff for assignment pickers
	if role := c.Query("role"); role != "" {
		query = query.Joins("JOIN user_roles ON user_roles.user_id = users.id").
			Where("user_roles.role = ?", role)
	}

	if err := query.Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}

	sanitizedUsers := make([]models.UserSanitized, len(users))
	for i, u := range users {
		sanitizedUsers[i] = u.Sanitize()
	}

	utils.Success(c, "Users fetched successfully", sanitizedUsers)
}

// GetUserByID handles fetching a single user by ID (admin).
func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID := c.Param("id")

	user, err := models.LoadUserWithRoles(h.DB, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "User fetched successfully", user.Sanitize())
}

// UpdateUserRequest represents the request body for updating a user by an admin.
type UpdateUserRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber"`
	// Roles are changed through the role endpoints, passwords through
	// a dedicated change-password flow.
}

// UpdateUser handles updating a user by ID (admin).
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var user models.User
	if err := h.DB.Preload("Roles").First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Email != "" && req.Email != user.Email {
		var existing models.User
		if err := h.DB.Where("email = ? AND id <> ?", req.Email, userID).First(&existing).Error; err == nil {
			utils.BadRequest(c, "Another user already uses this email")
			return
		}
		user.Email = req.Email
	}

	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update user: "+err.Error())
		return
	}

	utils.Success(c, "User updated successfully", user.Sanitize())
}

// DeleteUser handles deleting a user by ID (admin).
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")

	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	}); err != nil {
		utils.InternalServerError(c, "Failed to delete user: "+err.Error())
		return
	}

	utils.Success(c, "User deleted successfully", nil)
}

// AddRoleRequest represents the request body for granting a role.
type AddRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AddRole grants a role to a user (admin). Granting an already-held
// role is a no-op success.
func (h *UserHandler) AddRole(c *gin.Context) {
	userID := c.Param("id")

	var req AddRoleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	role := authz.Role(req.Role)
	if !authz.ValidRole(role) {
		utils.BadRequest(c, "Unknown role: "+req.Role)
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var existing models.UserRole
	err := h.DB.Where("user_id = ? AND role = ?", userID, role).First(&existing).Error
	if err == nil {
		utils.Success(c, "User already holds this role", nil)
		return
	}
	if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	if err := h.DB.Create(&models.UserRole{UserID: userID, Role: role}).Error; err != nil {
		utils.InternalServerError(c, "Failed to grant role: "+err.Error())
		return
	}

	updated, err := models.LoadUserWithRoles(h.DB, userID)
	if err != nil {
		utils.InternalServerError(c, "Failed to reload user: "+err.Error())
		return
	}
	utils.Success(c, "Role granted successfully", updated.Sanitize())
}

// RemoveRole revokes a role from a user (admin). Removing the last
// role leaves the account in place with an empty role set.
func (h *UserHandler) RemoveRole(c *gin.Context) {
	userID := c.Param("id")
	role := authz.Role(c.Param("role"))

	if !authz.ValidRole(role) {
		utils.BadRequest(c, "Unknown role: "+string(role))
		return
	}

	result := h.DB.Where("user_id = ? AND role = ?", userID, role).Delete(&models.UserRole{})
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to revoke role: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "User does not hold this role")
		return
	}

	updated, err := models.LoadUserWithRoles(h.DB, userID)
	if err != nil {
		utils.InternalServerError(c, "Failed to reload user: "+err.Error())
		return
	}
	utils.Success(c, "Role revoked successfully", updated.Sanitize())
}
