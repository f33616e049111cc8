package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/mailer"
	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"go.uber.org/zap"
)

const (
	CodeNotRegistered      = "NOT_REGISTERED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

func sessionCookie(value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   SecureCookie,
	}
	if maxAge > 0 {
		c.MaxAge = int(maxAge.Seconds())
		c.Expires = time.Now().Add(maxAge)
	} else {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	}
	return c
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		apierror.Write(w, r, err)
		return
	}

	account, password, err := CreateAccount(r.Context(), input.Name, input.Email, input.Role)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	// The account exists either way; a failed email only changes the message.
	emailSent := true
	msg, err := mailer.RegistrationEmail(account.Email, account.Name, password)
	if err == nil {
		err = Mailer.Send(r.Context(), msg)
	}
	if err != nil {
		emailSent = false
		zap.L().Warn("registration email failed", zap.String("email", account.Email), zap.Error(err))
	}

	message := "Admin registered successfully. The password has been sent to " + account.Email
	if !emailSent {
		message = "Admin registered, but the password email could not be sent. Please contact an administrator."
	}

	utils.JSON(w, r, http.StatusCreated, map[string]any{
		"success":   true,
		"message":   message,
		"emailSent": emailSent,
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		apierror.Write(w, r, err)
		return
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		apierror.Write(w, r, apierror.Validation("Email and password are required"))
		return
	}

	account, err := FindByEmail(r.Context(), input.Email)
	if db.IsNotFound(err) {
		apierror.Write(w, r, apierror.New(http.StatusBadRequest, CodeNotRegistered, "User not registered"))
		return
	}
	if err != nil {
		apierror.Write(w, r, apierror.Internal(err))
		return
	}

	if !checkPassword(account.Password, input.Password) {
		apierror.Write(w, r, apierror.New(http.StatusBadRequest, CodeInvalidCredentials, "Invalid email or password"))
		return
	}

	token, _, err := Tokens.Issue(account)
	if err != nil {
		apierror.Write(w, r, apierror.Internal(err))
		return
	}
	http.SetCookie(w, sessionCookie(token, Tokens.TTL()))

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"message": "Login successful",
		"admin":   account.View(),
	})
}

// LogoutHandler clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, sessionCookie("", 0))
	utils.JSON(w, r, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// VerifyHandler reports the identity carried by the token, without a DB read.
func VerifyHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := utils.GetClaimsFromContext(r.Context())
	utils.JSON(w, r, http.StatusOK, map[string]any{
		"valid": true,
		"user":  claims,
	})
}

// MeHandler returns the current account as stored, including changes made
// after the token was issued.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		apierror.Write(w, r, apierror.Unauthorized(apierror.CodeInvalidToken, "Invalid token"))
		return
	}

	var account Admin
	if err := db.DB.WithContext(r.Context()).First(&account, "id = ?", userID).Error; err != nil {
		apierror.Write(w, r, apierror.FromDB(err, errAccountNotFound, nil))
		return
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"admin":   account.View(),
	})
}

func SendPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		apierror.Write(w, r, err)
		return
	}
	if strings.TrimSpace(input.Email) == "" {
		apierror.Write(w, r, apierror.Validation("Email is required", "email"))
		return
	}

	account, err := SendNewPassword(r.Context(), Mailer, input.Email)
	if err != nil {
		apierror.Write(w, r, err)
		return
	}

	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "A new password has been sent to " + account.Email,
	})
}
