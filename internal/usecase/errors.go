package usecase

// Error codes surfaced to HTTP handlers and the sweep binary.
const (
	CodeNotFound    = "NOT_FOUND"
	CodeValidation  = "VALIDATION"
	CodeSendFailure = "SEND_FAILURE"
	CodePersistence = "PERSISTENCE"
)

// DomainError is terminal for the request: the caller got something wrong
// (unknown lead, missing field). Never retried.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is an infrastructure failure (send, persistence). The
// sequence flag is never set on this path, so a later sweep retries the
// same lead naturally.
type TechnicalError struct {
	Code    string
	Message string
	Cause   error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Cause
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

func NewNotFoundError(msg string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func NewValidationError(msg string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: msg}
}

func NewSendFailureError(msg string, cause error) *TechnicalError {
	return &TechnicalError{Code: CodeSendFailure, Message: msg, Cause: cause}
}

func NewPersistenceError(msg string, cause error) *TechnicalError {
	return &TechnicalError{Code: CodePersistence, Message: msg, Cause: cause}
}
