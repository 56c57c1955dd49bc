package domain

import "fmt"

// ValidationError reports an input outside its allowed domain. Analysis is
// never attempted on invalid input; handlers map this to a 400 with field detail.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Validationf builds a field-level ValidationError.
func Validationf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConvergenceError reports that a numerical solver exhausted its iteration
// budget without finding a root. Recovered locally: the affected metric is
// reported as NaN, never propagated as a crash.
type ConvergenceError struct {
	Method     string
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations", e.Method, e.Iterations)
}

// DataUnavailableError reports missing forecast/parameter data for a
// location. Callers fall back to static assumptions and flag the result.
type DataUnavailableError struct {
	Parameter    string
	LocationCode string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("no forecast data for %s at location %s", e.Parameter, e.LocationCode)
}
