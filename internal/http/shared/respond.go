// Package shared holds the JSON response helpers used by every handler.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "univote/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope. Details carry structured context
// such as missing ballot positions or an ineligibility reason.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into the JSON error envelope. Uncoded
// errors map to a generic internal error without leaking their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{
		Error:   string(code),
		Message: "internal error",
		Details: dErrors.DetailsOf(err),
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		resp.Message = domainErr.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
