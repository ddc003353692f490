package model

// ValidationError is returned when user input is rejected before any
// storage access happens. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
