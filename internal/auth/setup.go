package auth

import (
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/mailer"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Tokens signs and verifies session tokens.
	Tokens *TokenIssuer
	// Mailer delivers generated passwords.
	Mailer mailer.Sender
	// SecureCookie marks the session cookie Secure (HTTPS deployments).
	SecureCookie bool
)

func Init(tokens *TokenIssuer, sender mailer.Sender, secureCookie bool) {
	Tokens = tokens
	Mailer = sender
	SecureCookie = secureCookie

	if err := Migrate(db.DB); err != nil {
		zap.L().Fatal("Failed to auto-migrate auth tables", zap.Error(err))
	}
}

func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&Admin{})
}
