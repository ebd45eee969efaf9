package scheduling

import (
	"errors"
	"fmt"
)

// Error codes for scheduling failures. Conflict is the only recoverable one;
// the engine retries it against refreshed availability, everything else
// propagates to the caller-facing layer immediately.
const (
	CodeUnknownProvider = "unknownProvider"
	CodeInvalidIntent   = "invalidIntent"
	CodeConflict        = "conflict"
	CodeInvalidState    = "invalidState"
)

type SchedulingError struct {
	Code    string
	Message string
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewUnknownProviderError(id string) error {
	return &SchedulingError{
		Code:    CodeUnknownProvider,
		Message: fmt.Sprintf("provider %s is not registered", id),
	}
}

func NewInvalidIntentError(msg string) error {
	return &SchedulingError{Code: CodeInvalidIntent, Message: msg}
}

func NewConflictError(msg string) error {
	return &SchedulingError{Code: CodeConflict, Message: msg}
}

func NewInvalidStateError(msg string) error {
	return &SchedulingError{Code: CodeInvalidState, Message: msg}
}

func hasCode(err error, code string) bool {
	var se *SchedulingError
	return errors.As(err, &se) && se.Code == code
}

func IsUnknownProvider(err error) bool { return hasCode(err, CodeUnknownProvider) }
func IsInvalidIntent(err error) bool   { return hasCode(err, CodeInvalidIntent) }
func IsConflict(err error) bool        { return hasCode(err, CodeConflict) }
func IsInvalidState(err error) bool    { return hasCode(err, CodeInvalidState) }
