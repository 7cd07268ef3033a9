package services

// ServiceError is a typed error with an HTTP status code. Controllers map it
// straight to a JSON error response; the message is always safe to show.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }
