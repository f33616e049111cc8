package users

import (
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Init() {
	if err := Migrate(db.DB); err != nil {
		zap.L().Fatal("Failed to auto-migrate user tables", zap.Error(err))
	}
}

func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&User{})
}
