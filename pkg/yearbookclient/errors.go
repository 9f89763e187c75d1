package yearbookclient

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrNotAuthenticated is returned before Login or after Logout.
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrSubmissionInFlight is returned when a bulk upload is already pending.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// FallbackUploadMessage is shown when a failed bulk upload carries no readable reason.
const FallbackUploadMessage = "Failed to upload students"

// APIError is a non-2xx response. Error returns the server's reason unchanged; Status and
// Code are kept for callers that branch on them.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type errorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// decodeAPIError reads the envelope error, then a bare detail or message field, then fallback.
func decodeAPIError(status int, body []byte, fallback string) *APIError {
	apiErr := &APIError{Status: status}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Error != nil && strings.TrimSpace(parsed.Error.Message) != "":
			apiErr.Code = parsed.Error.Code
			apiErr.Message = parsed.Error.Message
		case strings.TrimSpace(parsed.Detail) != "":
			apiErr.Message = parsed.Detail
		case strings.TrimSpace(parsed.Message) != "":
			apiErr.Message = parsed.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fallback
	}
	return apiErr
}
