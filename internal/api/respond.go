package api

import (
	"encoding/json"
	"net/http"
	"time"

	"rentaride/internal/errors"
)

const dateLayout = "2006-01-02"

// parseDate reads a calendar date, dropping any time-of-day component by
// construction.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeSuccess responds with {"success": true, ...payload}.
func writeSuccess(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// writeError maps the error to its status and responds with
// {"success": false, "message": ...}. Unknown errors stay generic.
func writeError(w http.ResponseWriter, err error) {
	status := errors.StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Server error"
	}
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

func writeInvalid(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": message})
}
