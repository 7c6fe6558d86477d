package handlers

import (
	"encoding/json"
	"net/http"
)

// Machine-readable error codes returned alongside the human message.
const (
	CodeValidation         = "VALIDATION"
	CodeMissingCredential  = "MISSING_CREDENTIAL"
	CodeInvalidCredential  = "INVALID_CREDENTIAL"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeCardNotFound       = "CARD_NOT_FOUND"
	CodeNotOwner           = "NOT_OWNER"
	CodeRegistrationFailed = "REGISTRATION_FAILED"
	CodeInternal           = "INTERNAL"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// ErrorResponse defines the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// JSONError sends a JSON error response with a human message and a machine code.
func JSONError(w http.ResponseWriter, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// JSONValidationError sends a 400 with "fields" carrying field-level details.
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	out := map[string]interface{}{"error": message, "code": CodeValidation}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// writeJSON sends v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
