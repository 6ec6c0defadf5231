// Package errors defines the domain errors surfaced to API callers.
package errors

// DomainError is a stable, user-visible error with a machine-readable code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}
