package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMeta extracts metadata from an error
func GetMeta(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Meta
	}

	return nil
}

// GetMessage extracts the user-friendly message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// GetReason extracts the game reason from an error, or "" when there is none
func GetReason(err error) Reason {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.reason()
	}
	return ""
}

// HasReason checks if an error carries the given game reason
func HasReason(err error, r Reason) bool {
	return GetReason(err) == r
}

// Type checking helpers

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return GetCode(err) == CodeAlreadyExists
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

// IsResourceExhausted checks if an error is a resource exhausted error
func IsResourceExhausted(err error) bool {
	return GetCode(err) == CodeResourceExhausted
}

// IsFailedPrecondition checks if an error is a failed precondition error
func IsFailedPrecondition(err error) bool {
	return GetCode(err) == CodeFailedPrecondition
}

// IsAborted checks if an error is an aborted error
func IsAborted(err error) bool {
	return GetCode(err) == CodeAborted
}

// IsSessionNotFound checks for a missing dungeon session
func IsSessionNotFound(err error) bool {
	return HasReason(err, ReasonSessionNotFound)
}

// IsSessionBusy checks for a command rejected because the session was locked
func IsSessionBusy(err error) bool {
	return HasReason(err, ReasonSessionBusy)
}

// IsGameOver checks for a command rejected after a terminal state
func IsGameOver(err error) bool {
	return HasReason(err, ReasonGameOver)
}

// IsInvalidTarget checks for a command rejected because of its target
func IsInvalidTarget(err error) bool {
	return HasReason(err, ReasonInvalidTarget)
}

// IsAbilityUnavailable checks for an ability that could not be used
func IsAbilityUnavailable(err error) bool {
	return HasReason(err, ReasonAbilityUnavailable)
}
