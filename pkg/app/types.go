package app

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-ptgen/internal/device"
	"github.com/deploymenttheory/go-ptgen/internal/geometry"
	"github.com/deploymenttheory/go-ptgen/internal/guid"
	"github.com/deploymenttheory/go-ptgen/internal/layout"
)

// Output formats shared by the reporting commands
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ValidFormats lists the accepted --format values
var ValidFormats = []string{FormatTable, FormatJSON, FormatYAML}

// ValidateFormat checks an output format name
func ValidateFormat(format string) error {
	for _, f := range ValidFormats {
		if format == f {
			return nil
		}
	}
	return NewError(ErrCodeUsage, fmt.Sprintf("invalid format %q, must be one of %v", format, ValidFormats), nil)
}

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeUsage                = "USAGE"
	ErrCodeInvalidPartitionSize = "INVALID_PARTITION_SIZE"
	ErrCodeTooManyPartitions    = "TOO_MANY_PARTITIONS"
	ErrCodeInvalidIdentity      = "INVALID_IDENTITY"
	ErrCodeInvalidGeometry      = "INVALID_GEOMETRY"
	ErrCodeIO                   = "IO_ERROR"
	ErrCodeCorruptImage         = "CORRUPT_IMAGE"
)

// NewError creates a new CommonError
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Classify wraps err in a CommonError whose code matches the domain sentinel it carries.
// Errors that already are CommonErrors are returned unchanged; anything unrecognised is
// treated as an I/O failure.
func Classify(message string, err error) error {
	if err == nil {
		return nil
	}
	var common *CommonError
	if errors.As(err, &common) {
		return err
	}

	code := ErrCodeIO
	switch {
	case errors.Is(err, layout.ErrInvalidPartitionSize):
		code = ErrCodeInvalidPartitionSize
	case errors.Is(err, layout.ErrTooManyPartitions):
		code = ErrCodeTooManyPartitions
	case errors.Is(err, guid.ErrInvalidGUID):
		code = ErrCodeInvalidIdentity
	case errors.Is(err, geometry.ErrInvalidGeometry):
		code = ErrCodeInvalidGeometry
	case errors.Is(err, device.ErrShortWrite):
		code = ErrCodeIO
	}
	return NewError(code, message, err)
}

// ErrorCode returns the CommonError code carried by err, or "" when there is none
func ErrorCode(err error) string {
	var common *CommonError
	if errors.As(err, &common) {
		return common.Code
	}
	return ""
}
