package domain

import "net/http"

// Fixed error envelope messages
const (
	MessagePlanNotFound       = "Training plan not found"
	MessageIDMismatch         = "ID mismatch"
	MessageInvalidModel       = "Invalid model"
	MessageInvalidID          = "Invalid ID"
	MessagePlanExists         = "Training plan already exists"
	MessageStorageUnavailable = "Export storage not configured"
	MessageInternalError      = "Internal server error"
	MessageRouteNotFound      = "Not found"
	MessageMethodNotAllowed   = "Method not allowed"
	MessageUnauthorized       = "Unauthorized"
)

// ErrorEnvelope is the JSON body returned for every failed API request
type ErrorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewErrorEnvelope creates an envelope for the given status code
func NewErrorEnvelope(code int, message string) ErrorEnvelope {
	return ErrorEnvelope{Code: code, Message: message}
}

// NotFoundEnvelope is returned when a plan does not exist
func NotFoundEnvelope() ErrorEnvelope {
	return NewErrorEnvelope(http.StatusNotFound, MessagePlanNotFound)
}

// ErrorViewModel is the model of the generic error page
type ErrorViewModel struct {
	RequestID string
}

// ShowRequestID reports whether the page should display the request ID
func (m ErrorViewModel) ShowRequestID() bool {
	return m.RequestID != ""
}
