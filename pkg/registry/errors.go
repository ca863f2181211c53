package registry

import "fmt"

// Code is the machine-readable error code carried in error envelopes.
type Code string

// Error codes, one per operation category plus the shared validation,
// not-found and authorization codes.
const (
	CodeListFailed       Code = "E1001"
	CodeGetFailed        Code = "E1002"
	CodeCreateFailed     Code = "E1003"
	CodeUpdateFailed     Code = "E1004"
	CodeDeleteFailed     Code = "E1005"
	CodeNotFound         Code = "E1006"
	CodeValidationFailed Code = "E1007"
	CodeUploadFailed     Code = "E1008"
	CodeUnauthorized     Code = "E401"
)

// ValidationError is a rejected input. The message is user-facing and names
// the field and rule that failed; the first failure wins, there is no
// aggregation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validationf builds a ValidationError from a format string.
func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// errRefMissing is the message for a reference to a non-existent row.
func errRefMissing(field string) *ValidationError {
	return validationf("Provided %s doesn't exist", field)
}

// errNetworkNotInLocation is the message for an availableNetwork outside
// the referenced location's set.
var errNetworkNotInLocation = &ValidationError{Message: "Provided availableNetwork is not part of location"}
