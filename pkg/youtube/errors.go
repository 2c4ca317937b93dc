package youtube

import (
	"errors"
	"fmt"
)

var (
	// ErrQuotaExhausted is returned when every key has reached its daily cap.
	// The client never retries it; the scheduler sleeps until the quota epoch rolls over.
	ErrQuotaExhausted = errors.New("all youtube API keys have reached their daily quota limit")
	// ErrUpstreamAPI matches any *APIError via errors.Is
	ErrUpstreamAPI = errors.New("youtube API error")
	// ErrMalformedResponse is returned when a response body is not valid JSON
	ErrMalformedResponse = errors.New("malformed youtube API response")
	// ErrBatchTooLarge is returned when a lookup exceeds MaxBatchSize ids
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)

// APIError is an application-level error returned by the provider
type APIError struct {
	Endpoint   Endpoint
	StatusCode int
	Code       int
	Message    string
	Reason     string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube API error on %s (%d %s): %s", e.Endpoint, e.Code, e.Reason, e.Message)
	}

	return fmt.Sprintf("youtube API error on %s (%d): %s", e.Endpoint, e.Code, e.Message)
}

// Is reports whether target is ErrUpstreamAPI
func (e *APIError) Is(target error) bool {
	return target == ErrUpstreamAPI
}

// errorPayload is the provider's error envelope
type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  []struct {
		Reason  string `json:"reason"`
		Domain  string `json:"domain"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (p *errorPayload) toAPIError(endpoint Endpoint, statusCode int) *APIError {
	apiErr := &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Code:       p.Code,
		Message:    p.Message,
	}

	if len(p.Errors) > 0 {
		apiErr.Reason = p.Errors[0].Reason
	}

	if apiErr.Code == 0 {
		apiErr.Code = statusCode
	}

	return apiErr
}
