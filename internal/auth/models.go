package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Admin is an authenticated principal. Despite the name it may hold the
// student role.
type Admin struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `gorm:"not null;uniqueIndex;size:255" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	ProfilePic *string   `json:"profilePic"`
	Role       string    `gorm:"not null;default:student;size:16" json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AdminView is the sanitized account shape returned to clients.
type AdminView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	ProfilePic *string `json:"profilePic,omitempty"`
}

func (a Admin) View() AdminView {
	return AdminView{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Role:       a.Role,
		ProfilePic: a.ProfilePic,
	}
}

func validRole(role string) bool {
	return role == RoleAdmin || role == RoleStudent
}
