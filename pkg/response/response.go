// Package response writes JSON payloads. Handlers return their bodies
// unwrapped; the browser cart script expects the raw document shapes.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/travlrgetaways/travlr/pkg/logger"
)

// JSON marshals v to the response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response: encode failed", "error", err)
	}
}

// Message writes the common {"message": "..."} body.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// NoResults writes the canonical empty-read body with a 200.
func NoResults(w http.ResponseWriter) {
	Message(w, http.StatusOK, "No results found")
}

// ServerError writes the canonical lookup-failure body with a 404.
func ServerError(w http.ResponseWriter) {
	Message(w, http.StatusNotFound, "Server error")
}
