package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/mailer"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errDuplicateEmail = apierror.New(http.StatusBadRequest, apierror.CodeDuplicateMail, "Email already exists")

var errAccountNotFound = apierror.NotFound("ACCOUNT_NOT_FOUND", "Account not found")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAccount stores a new account with a generated password and returns
// the account with the plaintext password. Delivering the password is up to
// the caller.
func CreateAccount(ctx context.Context, name, email, role string) (Admin, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	role = strings.ToLower(strings.TrimSpace(role))

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return Admin{}, "", apierror.Validation("Name and email are required", missing...)
	}
	if !strings.Contains(email, "@") {
		return Admin{}, "", apierror.Validation("Invalid email address", "email")
	}
	if role == "" {
		role = RoleStudent
	}
	if !validRole(role) {
		return Admin{}, "", apierror.Validation("Role must be admin or student", "role")
	}

	var count int64
	if err := db.DB.WithContext(ctx).Model(&Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return Admin{}, "", apierror.Internal(err)
	}
	if count > 0 {
		return Admin{}, "", errDuplicateEmail
	}

	password, err := GeneratePassword(GeneratedPasswordLength)
	if err != nil {
		return Admin{}, "", apierror.Internal(fmt.Errorf("generate password: %w", err))
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return Admin{}, "", apierror.Internal(fmt.Errorf("hash password: %w", err))
	}

	account := Admin{Name: name, Email: email, Password: hashed, Role: role}
	// The unique index settles concurrent registrations of the same email.
	if err := db.DB.WithContext(ctx).Create(&account).Error; err != nil {
		return Admin{}, "", apierror.FromDB(err, nil, errDuplicateEmail)
	}

	return account, password, nil
}

// FindByEmail looks an account up by its (case-insensitive) email.
func FindByEmail(ctx context.Context, email string) (Admin, error) {
	var account Admin
	err := db.DB.WithContext(ctx).First(&account, "email = ?", normalizeEmail(email)).Error
	return account, err
}

// SendNewPassword issues a fresh password for the account and emails it. The
// stored hash only changes once the email went out, so a failed send leaves
// the old password working.
func SendNewPassword(ctx context.Context, sender mailer.Sender, email string) (Admin, error) {
	account, err := FindByEmail(ctx, email)
	if err != nil {
		return Admin{}, apierror.FromDB(err, errAccountNotFound, nil)
	}

	password, err := GeneratePassword(GeneratedPasswordLength)
	if err != nil {
		return Admin{}, apierror.Internal(err)
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return Admin{}, apierror.Internal(err)
	}

	msg, err := mailer.PasswordEmail(account.Email, account.Name, password)
	if err != nil {
		return Admin{}, apierror.Internal(err)
	}
	if err := sender.Send(ctx, msg); err != nil {
		zap.L().Warn("password email failed", zap.String("email", account.Email), zap.Error(err))
		return Admin{}, apierror.Upstream("Failed to send the password email", err)
	}

	if err := db.DB.WithContext(ctx).Model(&account).Update("password", hashed).Error; err != nil {
		return Admin{}, apierror.Internal(err)
	}
	return account, nil
}

// SetProfilePic points the account's profile picture at url. Unknown ids are
// reported with gorm.ErrRecordNotFound.
func SetProfilePic(ctx context.Context, id, url string) error {
	res := db.DB.WithContext(ctx).Model(&Admin{}).Where("id = ?", id).Update("profile_pic", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
