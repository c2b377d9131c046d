package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// APIError is a definite rejection from the backend: a response arrived and
// carried an error status.
type APIError struct {
	StatusCode int
	Message    string // server-provided message, when any
	Method     string
	Path       string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// springErrorBody is the backend's default error document.
type springErrorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Method: method, Path: path, Body: body}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return apiErr
	}
	var doc springErrorBody
	if err := json.Unmarshal(body, &doc); err == nil {
		switch {
		case doc.Message != "":
			apiErr.Message = doc.Message
		case doc.Error != "" && doc.Status != 0:
			apiErr.Message = doc.Error
		}
		return apiErr
	}
	// plain-text body
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		apiErr.Message = trimmed
	}
	return apiErr
}

// IsNetworkError reports whether err means the server never answered (as
// opposed to a definite rejection). Only this class of failure is eligible
// for retry and for the connectivity banner.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	if errors.Is(err, ErrSessionExpired) || errors.Is(err, context.Canceled) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// HumanMessage converts any error from this package into the user-facing
// string a view should render. Nothing crosses into the UI layer un-translated.
func HumanMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsNetworkError(err) {
		return "Unable to connect to the server. Please check your network connection."
	}
	if errors.Is(err, ErrSessionExpired) {
		return "Your session has expired. Please log in again."
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	switch apiErr.StatusCode {
	case http.StatusBadRequest:
		return "Invalid request. Please check your input and try again."
	case http.StatusUnauthorized:
		return "You are not authorized. Please log in again."
	case http.StatusForbidden:
		return "You do not have permission to perform this action."
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusConflict:
		return "This action conflicts with the current state. The resource might already exist."
	case http.StatusInternalServerError:
		if strings.HasPrefix(apiErr.Path, "/api/courses") &&
			(apiErr.Method == http.MethodPost || apiErr.Method == http.MethodPut) {
			return "Failed to process course data. Make sure all fields are filled correctly and the image is valid."
		}
		return "An unexpected server error occurred. Please try again later."
	default:
		return fmt.Sprintf("Error: %s", apiErr.Error())
	}
}
