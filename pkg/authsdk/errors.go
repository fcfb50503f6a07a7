package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the service, carrying the status code
// and the server's error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authd: %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether the client may usefully retry, e.g. by
// resending the code.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == http.StatusBadGateway ||
		e.StatusCode == http.StatusGatewayTimeout ||
		e.StatusCode == http.StatusTooManyRequests
}

func parseErrorResponse(statusCode int, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return &APIError{StatusCode: statusCode, Message: http.StatusText(statusCode)}
	}
	return &APIError{StatusCode: statusCode, Message: er.Error}
}
