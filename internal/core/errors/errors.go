package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidQueryError    = "invalid_query"
	HttpDatasetNotFoundError = "dataset_not_found"
	HttpRefreshFailedError   = "refresh_failed"
)

// ErrorResponse is the error body of every API endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
