package common

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP status codes used by handlers
const (
	StatusOK      = 200
	StatusCreated = 201

	StatusBadRequest      = 400
	StatusNotFound        = 404
	StatusTooManyRequests = 429

	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

// Response messages
const (
	MsgNotFound        = "Resource not found"
	MsgValidationError = "Invalid input"
	MsgInternalError   = "Internal server error"
	MsgTooManyRequests = "Too many requests, please try again later"
)

// ErrorCode describes one entry of the error taxonomy
type ErrorCode struct {
	Code        string // e.g. VAL_001
	Category    string // e.g. Validation
	SubCategory string // e.g. Input
	Description string
}

var (
	// System (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Unexpected internal error",
	}

	// Validation (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Missing or invalid input field",
	}
	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Malformed payload",
	}

	// Database (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Store failure",
	}
	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Store unreachable",
	}
	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lookup failed",
	}

	// Business (BIZ_xxx)
	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Operation not allowed",
	}
	ErrCodeConflict = ErrorCode{
		Code:        "BIZ_003",
		Category:    "Business",
		SubCategory: "Conflict",
		Description: "Unique value already taken",
	}

	// Upload (UPL_xxx)
	ErrCodeUpload = ErrorCode{
		Code:        "UPL_001",
		Category:    "Upload",
		SubCategory: "Attachment",
		Description: "Attachment rejected",
	}

	// External services (EXT_xxx)
	ErrCodeUpstream = ErrorCode{
		Code:        "EXT_001",
		Category:    "External",
		SubCategory: "Media",
		Description: "Remote media host failure",
	}
)

// Error is the error type carried from services to handlers
type Error struct {
	Code       ErrorCode // taxonomy entry
	Message    string    // message shown to the client
	StatusCode int       // HTTP status
	Details    any       // underlying cause, if any
}

// Error returns the client message
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause when Details holds an error
func (e *Error) Unwrap() error {
	if err, ok := e.Details.(error); ok {
		return err
	}
	return nil
}

// Is matches two *Error values by code and message
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code && e.Message == t.Message
}

// Cause returns the message of the wrapped error, or the message itself
func (e *Error) Cause() string {
	if err := e.Unwrap(); err != nil {
		return err.Error()
	}
	return e.Message
}

// NewError creates an *Error
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Sentinels
var (
	ErrNotFound      = NewError(ErrCodeDatabaseQuery, MsgNotFound, StatusNotFound, nil)
	ErrDuplicate     = NewError(ErrCodeConflict, "Duplicate value", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Malformed payload", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Required field is missing", StatusBadRequest, nil)

	ErrMongoNetwork = NewError(ErrCodeDatabaseConnection, "Database network error", StatusServiceUnavailable, nil)
	ErrMongoTimeout = NewError(ErrCodeDatabaseConnection, "Database timeout", StatusServiceUnavailable, nil)
)

// ValidationError returns a 400 input error with the given message
func ValidationError(message string) error {
	return NewError(ErrCodeValidationInput, message, StatusBadRequest, nil)
}

// NotFoundError returns a 404 with the given message
func NotFoundError(message string) error {
	return NewError(ErrCodeDatabaseQuery, message, StatusNotFound, nil)
}

// ConflictError returns the duplicate-value error; the client sees 400
func ConflictError(message string) error {
	return NewError(ErrCodeConflict, message, StatusBadRequest, nil)
}

// UploadError rejects an attachment before any handler logic runs
func UploadError(message string) error {
	return NewError(ErrCodeUpload, message, StatusBadRequest, nil)
}

// UpstreamError wraps a failure of the remote media host
func UpstreamError(err error) error {
	return NewError(ErrCodeUpstream, fmt.Sprintf("media upload failed: %v", err), StatusInternalServerError, err)
}

// StoreError wraps any other database failure
func StoreError(err error) error {
	return NewError(ErrCodeDatabase, err.Error(), StatusInternalServerError, err)
}

// ConvertMongoError maps driver errors onto the taxonomy
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	var custom *Error
	if errors.As(err, &custom) {
		return err
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return withCause(ErrDuplicate, err)
	case mongo.IsTimeout(err):
		return withCause(ErrMongoTimeout, err)
	case mongo.IsNetworkError(err):
		return withCause(ErrMongoNetwork, err)
	}

	return StoreError(err)
}

// withCause copies a sentinel and attaches the driver error to it
func withCause(sentinel, cause error) error {
	e := *sentinel.(*Error)
	e.Details = cause
	return &e
}
