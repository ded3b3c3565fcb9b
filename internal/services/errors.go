package services

// ValidationError marks input-shape failures (missing fields, wrong sample
// count, bad label pattern) that the caller can fix by resubmitting. Handlers
// map it to HTTP 400; everything else stays 500, including row parse errors,
// for parity with the historical upload pipeline.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
