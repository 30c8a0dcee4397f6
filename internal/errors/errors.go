package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeNoMatch       ErrorType = "NO_MATCH"
	TypePlatform      ErrorType = "PLATFORM"
	TypeEvent         ErrorType = "EVENT"
)

// AppError represents a categorized failure of a run
type AppError struct {
	Type    ErrorType
	Message string
	Context map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	msg := e.Message
	if input, ok := e.Context["input"].(string); ok && input != "" {
		msg += ": " + input
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same type and message,
// so derived errors still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:    e.Type,
		Message: e.Message,
		Context: e.Context,
		Err:     err,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:    e.Type,
		Message: e.Message,
		Context: ctx,
		Err:     e.Err,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrMissingInput        = NewAppError(TypeConfiguration, "Input required and not supplied", nil)
	ErrInvalidNewlineCount = NewAppError(TypeConfiguration, "body-prefix-newline-count must be a non-negative integer", nil)
	ErrInvalidRegex        = NewAppError(TypeConfiguration, "branch-regex is not a valid regular expression", nil)
	ErrReadConfigFile      = NewAppError(TypeConfiguration, "Failed to read config file", nil)
)

// Match errors
var (
	ErrNoMatch = NewAppError(TypeNoMatch, "Branch name does not match given regex", nil)
)

// Event errors
var (
	ErrReadEvent           = NewAppError(TypeEvent, "Failed to read event payload", nil)
	ErrNotPullRequestEvent = NewAppError(TypeEvent, "Event payload does not contain a pull request", nil)
	ErrResolveRepository   = NewAppError(TypeEvent, "Failed to resolve repository", nil)
)

// Platform errors
var (
	ErrUpdatePullRequest = NewAppError(TypePlatform, "Failed to update pull request", nil)
	ErrFetchPullRequest  = NewAppError(TypePlatform, "Failed to fetch pull request", nil)
)
