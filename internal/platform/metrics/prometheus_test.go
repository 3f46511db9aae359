package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager_Counters(t *testing.T) {
	m := NewMetricsManager("marketplace-service")

	m.Signup()
	m.Login(true)
	m.Login(false)
	m.Login(false)
	m.ListingCreated("Car")
	m.FavoriteToggled(true)
	m.FavoriteToggled(false)
	m.UploadRejected()
	m.ObserveHTTP(http.MethodGet, "/dashboard", http.StatusOK, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignupsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListingsCreatedTotal.WithLabelValues("Car")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FavoritesToggledTotal.WithLabelValues("added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FavoritesToggledTotal.WithLabelValues("removed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadRejectionsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/dashboard", "200")))
}

func TestMetricsManager_NilIsSafe(t *testing.T) {
	var m *MetricsManager
	assert.NotPanics(t, func() {
		m.Signup()
		m.Login(true)
		m.ListingCreated("Property")
		m.FavoriteToggled(true)
		m.UploadRejected()
		m.ObserveHTTP(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
}

func TestMetricsManager_Handler(t *testing.T) {
	m := NewMetricsManager("marketplace-service")
	m.Signup()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "marketplace_service_signups_total 1")
}
