package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrNotArray        = errors.New("the imported data must be an array of test cases")
	ErrBaseNotObject   = errors.New("the base request body must be a JSON object")
	ErrNoTarget        = errors.New("no target URL: please specify one with --url or runner.url")
	ErrNotFound        = errors.New("not found")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeParsing  ErrorType = "parsing"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeGenerate ErrorType = "generate"
	ErrorTypeImport   ErrorType = "import"
	ErrorTypeRun      ErrorType = "run"
	ErrorTypeStore    ErrorType = "store"
	ErrorTypeOutput   ErrorType = "output"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Err:     err,
	}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewConfigError creates a new error related to loading configuration
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// NewGenerateError creates a new error related to test case generation
func NewGenerateError(message string, err error) *AppError {
	return newError(ErrorTypeGenerate, message, err)
}

// NewImportError creates a new error related to bulk import of test cases
func NewImportError(message string, err error) *AppError {
	return newError(ErrorTypeImport, message, err)
}

// NewRunError creates a new error related to executing test cases
func NewRunError(message string, err error) *AppError {
	return newError(ErrorTypeRun, message, err)
}

// NewStoreError creates a new error related to run history storage
func NewStoreError(message string, err error) *AppError {
	return newError(ErrorTypeStore, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// stagePrefixes label each error type in messages shown to users
var stagePrefixes = map[ErrorType]string{
	ErrorTypeInput:    "Input error",
	ErrorTypeParsing:  "JSON parsing error",
	ErrorTypeConfig:   "Configuration error",
	ErrorTypeGenerate: "Test case generation error",
	ErrorTypeImport:   "Import error",
	ErrorTypeRun:      "Run error",
	ErrorTypeStore:    "History error",
	ErrorTypeOutput:   "Output error",
}

// sentinelHints are checked in order for errors that are not AppErrors
var sentinelHints = []struct {
	err  error
	hint string
}{
	{ErrEmptyInput, "The input is empty. Please provide valid JSON data."},
	{ErrInvalidJSON, "The input contains invalid JSON. Please check your JSON syntax."},
	{ErrMultipleJSON, "Multiple JSON values found. Please provide a single JSON object or array."},
	{ErrFileNotFound, "The specified file could not be found. Please check the file path."},
	{ErrFileEmpty, "The specified file is empty. Please provide a file with valid JSON content."},
	{ErrNoInput, "No input provided. Please specify a file with -i or pipe JSON data to stdin."},
	{ErrInvalidFilePath, "Invalid file path. Please provide a valid file path."},
	{ErrNotArray, "The imported data must be an array of test cases."},
	{ErrBaseNotObject, "The base request body must be a JSON object."},
	{ErrNoTarget, "No target URL. Please specify one with --url."},
	{ErrNotFound, "No stored run has that ID. Run `casegen history` to list them."},
}

// UserFriendlyError returns the message printed by the CLI. AppErrors are
// labelled with their stage; bare sentinels get a hint on how to fix them.
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		prefix, ok := stagePrefixes[appErr.Type]
		if !ok {
			prefix = "Error"
		}
		return prefix + ": " + appErr.Message
	}

	for _, h := range sentinelHints {
		if errors.Is(err, h.err) {
			return "Error: " + h.hint
		}
	}
	return fmt.Sprintf("Error: %v", err)
}
