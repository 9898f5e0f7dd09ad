package apierror

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Business reports a rejected request. The school API answers those with
// 200 and status=false so clients show the message to the operator.
func Business(code string, message string, details string) *APIError {
	return New(code, message, details, http.StatusOK)
}

// Envelope is the body written for every failed request.
type Envelope struct {
	Status  bool      `json:"status"`
	Message string    `json:"message"`
	Error   *APIError `json:"error,omitempty"`
}

func Write(w http.ResponseWriter, e *APIError) {
	status := e.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Status: false, Message: e.Message, Error: e})
}

// TimeoutBody is the static body for http.TimeoutHandler.
func TimeoutBody() string {
	raw, _ := json.Marshal(Envelope{
		Status:  false,
		Message: "request timed out",
		Error:   &APIError{Code: "REQUEST_TIMEOUT", Message: "request timed out"},
	})
	return string(raw)
}
