package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

var errMalformedForm = domain.NewValidationError("Malformed form body.")

// View is the model handed to the template layer, serialized as JSON.
type View struct {
	Page        string            `json:"page"`
	PageTitle   string            `json:"pageTitle"`
	IsLoggedIn  bool              `json:"isLoggedIn"`
	CurrentUser *UserView         `json:"currentUser,omitempty"`
	CurrentPath string            `json:"currentPath"`
	Data        any               `json:"data,omitempty"`
	Message     string            `json:"message,omitempty"`
	Errors      []string          `json:"errors,omitempty"`
	OldInput    map[string]string `json:"oldInput,omitempty"`
}

// UserView is the session user as exposed to views. It never carries the
// password hash.
type UserView struct {
	ID          string    `json:"_id"`
	Username    string    `json:"username"`
	MobileNo    int64     `json:"mobileno"`
	ProfilePic  string    `json:"profilePic"`
	CreatedAt   time.Time `json:"createdAt"`
	AccountYear int       `json:"accountYear"`
}

func userView(u *domain.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:          u.ID,
		Username:    u.Username,
		MobileNo:    u.MobileNo,
		ProfilePic:  u.ProfilePic,
		CreatedAt:   u.CreatedAt,
		AccountYear: u.AccountYear(),
	}
}

func newView(r *http.Request, page, title string) *View {
	user := middleware.CurrentUser(r.Context())
	return &View{
		Page:        page,
		PageTitle:   title,
		IsLoggedIn:  user != nil,
		CurrentUser: userView(user),
		CurrentPath: r.URL.Path,
	}
}

// statusFor maps a usecase error to an HTTP status. validationStatus is
// 422 for the auth forms and 400 for the listing forms.
func statusFor(err error, validationStatus int) int {
	var verr *domain.ValidationError
	var uerr *domain.UploadError
	switch {
	case errors.As(err, &verr):
		return validationStatus
	case errors.As(err, &uerr), errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMobileTaken), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text of a JSON error body. Validation messages are
// sent without the summary prefix.
func userMessage(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return strings.Join(verr.Messages, " ")
	}
	return err.Error()
}

type responder struct {
	logger *logger.Logger
}

func (rs responder) render(w http.ResponseWriter, status int, v *View) {
	rs.writeJSON(w, status, v)
}

func (rs responder) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		rs.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (rs responder) redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusFound)
}

// formError re-renders v with the error and returns the status written.
func (rs responder) formError(w http.ResponseWriter, r *http.Request, v *View, err error, validationStatus int) int {
	status := statusFor(err, validationStatus)
	if status == http.StatusInternalServerError {
		rs.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
		v.Message = internalErrorMessage
		v.Errors = []string{internalErrorMessage}
	} else {
		v.Message = err.Error()
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			v.Errors = verr.Messages
		} else {
			v.Errors = []string{v.Message}
		}
	}
	rs.render(w, status, v)
	return status
}

// fail answers with {"message": ...}.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error, validationStatus int) {
	status := statusFor(err, validationStatus)
	msg := userMessage(err)
	if status == http.StatusInternalServerError {
		rs.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = internalErrorMessage
	}
	rs.writeJSON(w, status, map[string]string{"message": msg})
}
