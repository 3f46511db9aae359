package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
)

type anonymous struct{}

func (anonymous) Resolve(*http.Request) (string, string, error) {
	return "", "", domain.ErrUnauthenticated
}

type noUsers struct{}

func (noUsers) CurrentUser(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUnauthenticated
}

type stubListings struct{ handler.ListingService }

func (stubListings) CarDetail(context.Context, string) (*domain.CarWithSeller, error) {
	return nil, &domain.NotFoundError{Entity: "Car"}
}

type stubAuth struct{ handler.AuthService }

func (stubAuth) Signup(context.Context, usecase.SignupInput) (*domain.User, error) {
	return &domain.User{ID: "u1"}, nil
}

func newTestRouter(uploads http.Handler) http.Handler {
	log := logger.NewNop()
	gate := middleware.NewSessionGate(anonymous{}, noUsers{}, log)
	r := New(log, metrics.NewMetricsManager("marketplace-test"), Options{Uploads: uploads, ServeMetrics: true})
	SetupAuthRoutes(r, handler.NewAuthHandler(stubAuth{}, nil, log), gate)
	SetupListingRoutes(r, handler.NewListingHandler(stubListings{}, handler.UploadLimits{MaxFiles: 5, MaxFileSizeMB: 5}, nil, log), gate)
	SetupAccountRoutes(r, handler.NewAccountHandler(nil, nil, nil, handler.UploadLimits{MaxFiles: 1, MaxFileSizeMB: 5}, nil, log), gate)
	return r
}

func TestRouter_AnonymousAccess(t *testing.T) {
	r := newTestRouter(nil)

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantLoc    string
	}{
		{http.MethodGet, "/", http.StatusOK, ""},
		{http.MethodGet, "/usersignup", http.StatusOK, ""},
		{http.MethodGet, "/healthz", http.StatusOK, ""},
		{http.MethodGet, "/metrics", http.StatusOK, ""},
		{http.MethodGet, "/cars/abc", http.StatusNotFound, ""},
		{http.MethodGet, "/dashboard", http.StatusFound, "/"},
		{http.MethodGet, "/myads", http.StatusFound, "/"},
		{http.MethodGet, "/favorite", http.StatusFound, "/"},
		{http.MethodGet, "/userprofile", http.StatusFound, "/"},
		{http.MethodGet, "/edituserprofile", http.StatusFound, "/"},
		{http.MethodGet, "/choosecategory", http.StatusFound, "/"},
		{http.MethodGet, "/cars", http.StatusFound, "/"},
		{http.MethodPost, "/cars", http.StatusFound, "/"},
		{http.MethodGet, "/properties", http.StatusFound, "/"},
		{http.MethodPost, "/postproperty", http.StatusFound, "/"},
		{http.MethodGet, "/carsonly", http.StatusFound, "/"},
		{http.MethodGet, "/propertyonly", http.StatusFound, "/"},
		{http.MethodPost, "/logout", http.StatusFound, "/"},
		{http.MethodPost, "/toggle", http.StatusUnauthorized, ""},
		{http.MethodGet, "/uploads/photos/a.png", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRouter_SignupRedirects(t *testing.T) {
	r := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodPost, "/usersignup", strings.NewReader("username=alice&mobileno=9876543210&password=secret1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRouter_ServesUploads(t *testing.T) {
	uploads := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})
	r := newTestRouter(uploads)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/photos/a.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/uploads/photos/a.png", rec.Body.String())
}
