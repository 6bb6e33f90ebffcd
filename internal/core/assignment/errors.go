package assignment

import "errors"

var (
	ErrAssignmentNotFound = errors.New("assignment: not found")
	ErrInvalidID          = errors.New("assignment: invalid id")
	ErrInvalidStatus      = errors.New("assignment: invalid status")
	ErrInvalidActor       = errors.New("assignment: actor is required")
	ErrIllegalTransition  = errors.New("assignment: illegal transition")

	// ErrValidationFailed は配属ルール違反の総称です。個別のルールは下記のエラーで判別します。
	ErrValidationFailed     = errors.New("assignment: validation failed")
	ErrEmployeeNotAvailable = errors.New("assignment: employee not available")
	ErrAlreadyAssigned      = errors.New("assignment: already assigned")
	ErrProjectNotStaffable  = errors.New("assignment: project is not open for staffing")
)

// validationError は違反したルールを保持し、ErrValidationFailed とも一致します。
type validationError struct {
	rule error
}

func (e *validationError) Error() string { return e.rule.Error() }

func (e *validationError) Unwrap() error { return e.rule }

func (e *validationError) Is(target error) bool { return target == ErrValidationFailed }

func rejected(rule error) error {
	return &validationError{rule: rule}
}
