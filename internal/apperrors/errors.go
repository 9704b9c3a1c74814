package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Workflow errors. These are expected business conditions, surfaced to the
// caller as tagged errors rather than panics (see handler error mapping).
var (
	// ErrInvalidAmount indicates a non-positive expense amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrUnknownCurrency indicates a currency code not present in the currency directory.
	ErrUnknownCurrency = errors.New("unknown currency code")

	// ErrNoManagerAssigned indicates chain resolution needed a manager and the
	// employee has none assigned.
	ErrNoManagerAssigned = errors.New("employee has no manager assigned")

	// ErrNoAdminAvailable indicates chain resolution found no admin in the company.
	ErrNoAdminAvailable = errors.New("no admin available in company")

	// ErrNotAuthorizedApprover indicates the acting user is not the resolved
	// approver for the expense's current step.
	ErrNotAuthorizedApprover = errors.New("user is not the current approver")

	// ErrExpenseNotPending indicates a decision was attempted on a terminal expense.
	ErrExpenseNotPending = errors.New("expense is not pending approval")

	// ErrChainExhausted indicates the step index ran past the resolved chain.
	// Correct resolution prevents this; treat as an internal invariant violation.
	ErrChainExhausted = errors.New("approval chain exhausted")

	// ErrStaleExpense indicates a concurrent decision won the race; the caller
	// must refresh and re-read the expense.
	ErrStaleExpense = errors.New("expense was modified concurrently")

	// ErrRateUnavailable indicates the external rate provider failed or does not
	// know the requested currency pair.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)

// AppError wraps an underlying error with an HTTP-ish status code for
// repository-level failures that have no sentinel of their own.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError wraps ErrValidation with a message.
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}
