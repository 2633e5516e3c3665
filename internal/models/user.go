package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"diagnostic-center-server/internal/authz"
)

// User represents a user in the system
type User struct {
	BaseModel
	Email       string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName   string `gorm:"size:100" json:"firstName"`
	LastName    string `gorm:"size:100" json:"lastName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`

	// Relations (not always preloaded)
	Roles         []UserRole     `gorm:"foreignKey:UserID" json:"roles,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	Reports       []Report       `gorm:"foreignKey:PatientID" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"-"`
}

// UserRole is a (user, role) pair. A user may hold several roles at
// once; removing the last role does not delete the account.
type UserRole struct {
	BaseModel
	UserID string     `gorm:"size:36;uniqueIndex:idx_user_role" json:"userId"`
	Role   authz.Role `gorm:"size:20;uniqueIndex:idx_user_role" json:"role"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// RoleSet materializes the user's role set from the preloaded Roles
// relation.
func (u *User) RoleSet() authz.RoleSet {
	set := make(authz.RoleSet, len(u.Roles))
	for _, r := range u.Roles {
		set[r.Role] = true
	}
	return set
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Address     string   `json:"address,omitempty"`
	Roles       []string `json:"roles"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		Roles:       u.RoleSet().Strings(),
	}
}

// LoadUserWithRoles fetches a user and their role rows.
func LoadUserWithRoles(db *gorm.DB, userID string) (*User, error) {
	var user User
	if err := db.Preload("Roles").First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
