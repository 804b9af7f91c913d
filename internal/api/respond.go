package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	// Public routes are called from browser clients, so every actual
	// response needs the CORS header, not just the preflight.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeNoContent(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeBody decodes a JSON request body, rejecting unknown fields so typos
// in client payloads surface as 400s instead of silently dropped data.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeValidationError maps model validation failures to 400 with the field
// message; anything else is a 500.
func writeValidationError(w http.ResponseWriter, err error) bool {
	var ve models.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Error())
		return true
	}
	return false
}
