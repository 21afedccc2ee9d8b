package errors

// Non-field error keys used in the ingestion error map.
const (
	FieldBody  = "body"
	FieldEvent = "event"
	FieldQuery = "query"
)

// Generic messages for failures outside field validation.
const (
	MsgInvalidJSON   = "Invalid JSON body"
	MsgBodyTooLarge  = "Request body exceeds maximum allowed size"
	MsgPersistFailed = "Failed to persist event"
)

// ErrorResponse is the error response body for ingestion errors:
// success is always false and the map is keyed by field name.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Errors  map[string]string `json:"errors"`
}

// Fields wraps a field-error map in the response envelope.
func Fields(errs map[string]string) ErrorResponse {
	return ErrorResponse{Success: false, Errors: errs}
}

// Single builds an ErrorResponse carrying one error.
func Single(field, message string) ErrorResponse {
	return Fields(map[string]string{field: message})
}
