package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Error is the typed error surfaced by the API: a human-readable message
// and a machine-readable code (the API's error code, or the HTTP status
// when the body carries none).
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// ErrorMessage returns the bare message without the code suffix.
func (e *Error) ErrorMessage() string { return e.Message }

// ErrorCode returns the machine-readable code, if any.
func (e *Error) ErrorCode() string { return e.Code }

// errorFromResponse decodes a non-2xx response into an *Error. Bodies that
// are not the API's error shape fall back to the HTTP status text.
func errorFromResponse(resp *http.Response) *Error {
	apiErr := &Error{Code: strconv.Itoa(resp.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var decoded Error
		if json.Unmarshal(body, &decoded) == nil && decoded.Message != "" {
			apiErr.Message = decoded.Message
			if decoded.Code != "" {
				apiErr.Code = decoded.Code
			}
			return apiErr
		}
	}

	apiErr.Message = http.StatusText(resp.StatusCode)
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return apiErr
}
