package products

import (
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ProductName string    `gorm:"not null" json:"productName"`
	Category    string    `gorm:"not null;index" json:"category"`
	Price       float64   `gorm:"not null" json:"price"`
	Stock       int       `gorm:"not null" json:"stock"`
	Status      string    `gorm:"not null" json:"status"`
	Rating      float64   `gorm:"not null" json:"rating"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Input is the create/update payload. Nil fields were not sent.
type Input struct {
	ProductName *string          `json:"productName" yaml:"productName"`
	Category    *string          `json:"category" yaml:"category"`
	Price       *utils.FlexFloat `json:"price" yaml:"price"`
	Stock       *utils.FlexInt   `json:"stock" yaml:"stock"`
	Status      *string          `json:"status" yaml:"status"`
	Rating      *utils.FlexFloat `json:"rating" yaml:"rating"`
	Image       *string          `json:"image" yaml:"image"`
}

// CategoryCount is one entry of the category filter list.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
