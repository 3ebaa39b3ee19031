package extract

// ValidationError indicates the source bundle held no usable input. It is
// the only hard failure extraction can produce; every per-field miss is a
// nil field, never an error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Message
}
