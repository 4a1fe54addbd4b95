package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentaride/internal/errors"
)

func TestCheckAvailabilityRejectsBadDates(t *testing.T) {
	h := NewBookingHandler(nil) // validation fails before the service is touched

	body := `{"location":"New York","pickupDate":"not-a-date","returnDate":"2024-01-05"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/check-availability", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CheckAvailability(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
}

func TestCheckAvailabilityRejectsInvertedRange(t *testing.T) {
	h := NewBookingHandler(nil)

	body := `{"location":"New York","pickupDate":"2024-01-05","returnDate":"2024-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/check-availability", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CheckAvailability(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBookingRejectsBadID(t *testing.T) {
	h := NewBookingHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/abc", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "abc"})
	rec := httptest.NewRecorder()
	h.GetBooking(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteErrorMapsKnownKinds(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.Conflict("car is not available"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "car is not available", resp["message"])
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Server error", resp["message"])
}

func TestRateLimitCapsBurst(t *testing.T) {
	limited := RateLimit(60, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitIsPerClient(t *testing.T) {
	limited := RateLimit(60, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code, "a different client gets its own bucket")
}
