package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

// AuthHandler validates the admin passcode for the editor surface.
// Implements the Handler interface for registration with a Router.
//
// The passcode gate is a lightweight shared secret, not a session
// system; clients re-send it when they need elevated actions.
type AuthHandler struct {
	passcode string
	logger   *log.Logger
}

// NewAuthHandler creates an [AuthHandler] checking against the configured passcode.
func NewAuthHandler(passcode string, logger *log.Logger) *AuthHandler {
	return &AuthHandler{passcode: passcode, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"POST /api/admin-auth"}
}

// ServeHTTP validates the submitted passcode.
//
// Whitespace around the passcode is ignored on both sides, and the
// comparison is constant time.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Passcode string `json:"passcode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"valid": false,
			"error": "Error validating admin passcode",
		})
		return
	}

	if body.Passcode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"valid": false,
			"error": "Passcode is required",
		})
		return
	}

	if h.passcode == "" {
		h.logger.Error("admin passcode is not configured")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"valid": false,
			"error": "Server configuration error",
		})
		return
	}

	got := strings.TrimSpace(body.Passcode)
	want := strings.TrimSpace(h.passcode)
	valid := subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1

	writeJSON(w, http.StatusOK, map[string]any{"valid": valid})
}
