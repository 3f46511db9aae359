package handler

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

const profileImageField = "profileImage"

// AccountHandler serves the pages that belong to the logged-in user:
// dashboard, my ads, favorites and profile.
type AccountHandler struct {
	responder
	dashboard DashboardService
	favorites FavoriteService
	profiles  ProfileService
	limits    UploadLimits
	metrics   UploadMetrics
}

func NewAccountHandler(dashboard DashboardService, favorites FavoriteService, profiles ProfileService, limits UploadLimits, metrics UploadMetrics, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		responder: responder{logger: log.Named("AccountHTTPHandler")},
		dashboard: dashboard,
		favorites: favorites,
		profiles:  profiles,
		limits:    limits,
		metrics:   metrics,
	}
}

func (h *AccountHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	listings, err := h.dashboard.Dashboard(r.Context(), user)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	view := newView(r, "dashBoard", "Dashboard")
	view.Data = listings
	h.render(w, http.StatusOK, view)
}

func (h *AccountHandler) MyAds(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	ads, err := h.dashboard.MyAds(r.Context(), user)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	if ads == nil {
		ads = []*domain.ListingSummary{}
	}
	view := newView(r, "userAds", "My Ads")
	view.Data = map[string]any{"ads": ads}
	h.render(w, http.StatusOK, view)
}

func (h *AccountHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	favs, err := h.favorites.Favorites(r.Context(), user)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	if favs == nil {
		favs = []domain.FavoriteGroup{}
	}
	view := newView(r, "favorites", "My Favorites")
	view.Data = map[string]any{"favorites": favs}
	h.render(w, http.StatusOK, view)
}

type toggleRequest struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Toggle accepts {"id","type"} as JSON or as form fields and answers with
// the new favorite state.
func (h *AccountHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxFormValueBytes)).Decode(&req); err != nil {
			h.fail(w, r, domain.NewValidationError("Malformed JSON body."), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			h.fail(w, r, errMalformedForm, http.StatusBadRequest)
			return
		}
		req.ID = r.PostForm.Get("id")
		req.Type = r.PostForm.Get("type")
	}

	user := middleware.CurrentUser(r.Context())
	isFavorite, err := h.favorites.Toggle(r.Context(), user, strings.TrimSpace(req.ID), domain.ItemType(strings.TrimSpace(req.Type)))
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"isFavorite": isFavorite})
}

func (h *AccountHandler) UserProfile(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, newView(r, "userProfile", "My Profile"))
}

func (h *AccountHandler) EditProfilePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, newView(r, "editProfile", "Edit Profile"))
}

func (h *AccountHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	view := newView(r, "editProfile", "Edit Profile")
	form, err := parseForm(w, r, h.limits, map[string]int{profileImageField: 1})
	if err != nil {
		countRejection(h.metrics, err)
		h.formError(w, r, view, err, http.StatusBadRequest)
		return
	}
	view.OldInput = map[string]string{"username": form.Values.Get("username")}

	var image *domain.Upload
	if files := form.Files[profileImageField]; len(files) > 0 {
		image = &files[0]
	}

	user := middleware.CurrentUser(r.Context())
	updated, err := h.profiles.EditProfile(r.Context(), user, usecase.ProfileInput{Username: form.Values.Get("username")}, image)
	if err != nil {
		h.formError(w, r, view, err, http.StatusBadRequest)
		return
	}
	h.logger.Info("Profile updated", zap.String("user_id", updated.ID))
	h.redirect(w, r, "/userprofile")
}
