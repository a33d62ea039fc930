package errors

import "fmt"

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when checkout input is missing or malformed.
// No remote call is attempted once this is raised.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrCustomerResolution is returned when neither the customer lookup nor the
// fallback customer creation yielded a usable ERPNext customer identifier.
// Order submission is never attempted after this error.
type ErrCustomerResolution struct {
	Email string
	Cause error
}

func (e *ErrCustomerResolution) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("could not resolve customer for %s: %v", e.Email, e.Cause)
	}
	return fmt.Sprintf("could not resolve customer for %s", e.Email)
}

func (e *ErrCustomerResolution) Unwrap() error { return e.Cause }

// ErrOrderSubmission is returned when the sales order creation call failed
// after a customer was successfully resolved. The resolved (possibly freshly
// created) customer record is not rolled back.
type ErrOrderSubmission struct {
	Customer string
	Cause    error
}

func (e *ErrOrderSubmission) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sales order submission failed for customer %s: %v", e.Customer, e.Cause)
	}
	return fmt.Sprintf("sales order submission failed for customer %s", e.Customer)
}

func (e *ErrOrderSubmission) Unwrap() error { return e.Cause }
