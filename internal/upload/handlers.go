package upload

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/auth"
	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errTooLarge = apierror.Upload(apierror.CodeFileTooLarge, "File too large. Maximum size is 5MB")

// ProfilePictureHandler accepts a multipart image in the "profilePicture"
// field. Type and size are checked before anything is sent to storage.
func ProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(MaxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierror.Write(w, r, errTooLarge)
			return
		}
		apierror.Write(w, r, apierror.Upload(apierror.CodeNoFile, "No file uploaded"))
		return
	}

	file, header, err := r.FormFile("profilePicture")
	if err != nil {
		apierror.Write(w, r, apierror.Upload(apierror.CodeNoFile, "No file uploaded"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		apierror.Write(w, r, apierror.Upload(apierror.CodeInvalidFile, "Only image files are allowed"))
		return
	}
	if header.Size > MaxFileSize {
		apierror.Write(w, r, errTooLarge)
		return
	}

	body, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		apierror.Write(w, r, apierror.Internal(err))
		return
	}
	if len(body) > MaxFileSize {
		apierror.Write(w, r, errTooLarge)
		return
	}

	res := Store(r.Context(), ObjectStore, header.Filename, contentType, body)

	if userID := strings.TrimSpace(r.FormValue("userId")); userID != "" {
		attachToAccount(r, userID, res.URL)
	}

	message := "Profile picture uploaded successfully"
	if res.Degraded {
		message = "Profile picture saved, but object storage is unavailable so it is stored inline"
	}
	utils.JSON(w, r, http.StatusOK, map[string]any{
		"success":  true,
		"imageUrl": res.URL,
		"message":  message,
		"degraded": res.Degraded,
	})
}

// attachToAccount is best effort: the upload already succeeded, so a bad or
// unknown id is only logged.
func attachToAccount(r *http.Request, userID, url string) {
	if _, err := uuid.Parse(userID); err != nil {
		zap.L().Info("ignoring malformed userId on upload", zap.String("userId", userID))
		return
	}
	err := auth.SetProfilePic(r.Context(), userID, url)
	switch {
	case db.IsNotFound(err):
		zap.L().Info("upload userId does not match an account", zap.String("userId", userID))
	case err != nil:
		zap.L().Error("failed to attach profile picture", zap.String("userId", userID), zap.Error(err))
	}
}
