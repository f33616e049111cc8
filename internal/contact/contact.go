// Package contact handles the public contact form. Submissions are stored
// and forwarded to the site owner by email.
package contact

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/mailer"
	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxMessageLength = 5000

type Submission struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `gorm:"not null" json:"message"`
	Delivered bool      `gorm:"not null;default:false" json:"delivered"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

var (
	// Recipient is the owner address submissions are sent to.
	Recipient string
	Mailer    mailer.Sender
)

func Init(recipient string, sender mailer.Sender) {
	Recipient = recipient
	Mailer = sender
	if err := Migrate(db.DB); err != nil {
		zap.L().Fatal("Failed to auto-migrate contact tables", zap.Error(err))
	}
}

func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&Submission{})
}

// SetupRoutes serves /api/contact.
func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewRateLimiter(5, 3).Handler)
	r.Post("/", SubmitHandler)
	return r
}

func SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var in mailer.Contact
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		apierror.Write(w, r, err)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	var problems []string
	if in.Name == "" {
		problems = append(problems, "name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		problems = append(problems, "a valid email is required")
	}
	if in.Message == "" {
		problems = append(problems, "message is required")
	} else if len(in.Message) > maxMessageLength {
		problems = append(problems, "message is too long")
	}
	if len(problems) > 0 {
		apierror.Write(w, r, apierror.Validation("Validation failed", problems...))
		return
	}

	if Recipient == "" {
		apierror.Write(w, r, apierror.New(http.StatusServiceUnavailable, apierror.CodeUnavailable, "Contact form is not configured"))
		return
	}

	sub := Submission{Name: in.Name, Email: in.Email, Subject: in.Subject, Message: in.Message}
	if err := db.DB.WithContext(r.Context()).Create(&sub).Error; err != nil {
		apierror.Write(w, r, apierror.Internal(err))
		return
	}

	msg, err := mailer.ContactEmail(Recipient, in)
	if err == nil {
		err = Mailer.Send(r.Context(), msg)
	}
	if err != nil {
		apierror.Write(w, r, apierror.Upstream("Your message could not be sent. Please try again later.", err))
		return
	}

	if err := db.DB.WithContext(r.Context()).Model(&sub).Update("delivered", true).Error; err != nil {
		zap.L().Warn("failed to mark contact submission delivered", zap.String("id", sub.ID), zap.Error(err))
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "Thanks for reaching out! We will get back to you soon.",
	})
}
