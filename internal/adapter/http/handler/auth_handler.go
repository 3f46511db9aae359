package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	responder
	auth     AuthService
	sessions Sessions
}

func NewAuthHandler(auth AuthService, sessions Sessions, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: log.Named("AuthHTTPHandler")},
		auth:      auth,
		sessions:  sessions,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, newView(r, "userLogin", "Login"))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	view := newView(r, "userLogin", "Login")
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, errMalformedForm, http.StatusBadRequest)
		return
	}
	in := usecase.LoginInput{
		MobileNo: r.PostForm.Get("mobileno"),
		Password: r.PostForm.Get("password"),
	}
	view.OldInput = map[string]string{"mobileno": in.MobileNo}

	user, err := h.auth.Login(r.Context(), in)
	if err != nil {
		h.formError(w, r, view, err, http.StatusUnprocessableEntity)
		return
	}
	if err := h.sessions.Start(r.Context(), w, user.ID); err != nil {
		h.logger.Error("Failed to start session", zap.String("user_id", user.ID), zap.Error(err))
		h.formError(w, r, view, err, http.StatusUnprocessableEntity)
		return
	}
	h.redirect(w, r, "/dashboard")
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, newView(r, "userSignup", "Signup"))
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	view := newView(r, "userSignup", "Signup")
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, errMalformedForm, http.StatusBadRequest)
		return
	}
	in := usecase.SignupInput{
		Username: r.PostForm.Get("username"),
		MobileNo: r.PostForm.Get("mobileno"),
		Password: r.PostForm.Get("password"),
	}
	view.OldInput = map[string]string{"username": in.Username, "mobileno": in.MobileNo}

	if _, err := h.auth.Signup(r.Context(), in); err != nil {
		h.formError(w, r, view, err, http.StatusUnprocessableEntity)
		return
	}
	h.redirect(w, r, "/")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		h.logger.Warn("Failed to delete session", zap.Error(err))
	}
	h.redirect(w, r, "/")
}
