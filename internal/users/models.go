package users

import (
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a manually entered student record.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	FullName  string    `gorm:"not null" json:"fullName"`
	Age       int       `gorm:"not null" json:"age"`
	Email     string    `gorm:"not null;uniqueIndex;size:255" json:"email"`
	Phone     string    `gorm:"not null" json:"phone"`
	Gender    string    `gorm:"not null;size:16" json:"gender"`
	BirthDate *string   `gorm:"size:10" json:"birthDate"`
	Course    string    `gorm:"not null;index" json:"course"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Input is the create/update payload. Nil fields were not sent.
type Input struct {
	FullName  *string        `json:"fullName" yaml:"fullName"`
	Age       *utils.FlexInt `json:"age" yaml:"age"`
	Email     *string        `json:"email" yaml:"email"`
	Phone     *string        `json:"phone" yaml:"phone"`
	Gender    *string        `json:"gender" yaml:"gender"`
	BirthDate *string        `json:"birthDate" yaml:"birthDate"`
	Course    *string        `json:"course" yaml:"course"`
}
