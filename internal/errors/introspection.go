package errors

var (
	ErrMisroutedInvocation = &DomainError{
		Code:    "MISROUTED_INVOCATION",
		Message: "triggering operation does not target this program",
	}
	ErrSourceUnavailable = &DomainError{
		Code:    "SOURCE_UNAVAILABLE",
		Message: "operation source unavailable",
	}
	ErrIndexOutOfRange = &DomainError{
		Code:    "INDEX_OUT_OF_RANGE",
		Message: "operation index out of range",
	}
	ErrTransferFailed = &DomainError{
		Code:    "TRANSFER_FAILED",
		Message: "transfer failed",
	}
	ErrRecordNotFound = &DomainError{
		Code:    "RECORD_NOT_FOUND",
		Message: "introspection records not found",
	}
	ErrInvalidRequest = &DomainError{
		Code:    "INVALID_REQUEST",
		Message: "invalid request",
	}
)
