package fieldset

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrShortBuffer indicates a buffer holds fewer bytes than an operation needs.
	ErrShortBuffer = errors.New("buffer too short")

	// ErrTooLong indicates a string or sequence exceeds the 255 element wire limit.
	ErrTooLong = errors.New("length exceeds 255")

	// ErrType indicates a value of the wrong type was supplied for a field.
	ErrType = errors.New("type mismatch")

	// ErrOverflow indicates a numeric value does not fit the field type.
	ErrOverflow = errors.New("value out of range")

	// ErrSyntax indicates a text line or scalar could not be parsed.
	ErrSyntax = errors.New("syntax error")

	// ErrEmptyLine indicates a blank line where a field line was expected.
	ErrEmptyLine = errors.New("unexpected empty line")

	// ErrIndent indicates a line is indented deeper than its block allows.
	ErrIndent = errors.New("unexpected indentation")

	// ErrUnknownField indicates a name that is not registered for the record type.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidField indicates a field specification that cannot be registered.
	ErrInvalidField = errors.New("invalid field")

	// ErrUnmarshal indicates the document codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the document codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// FieldError represents a failure of one field operation.
// It wraps the underlying error with the field name and the operation that failed.
type FieldError struct {
	Field     string // Field name that failed
	Operation string // encode, decode, set, import
	Err       error  // Underlying error, usually wrapping a sentinel
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s field %s: %v", e.Operation, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ParseError represents a text decoding failure with source position.
type ParseError struct {
	Field string // Field name, empty when the line could not be attributed
	Line  int    // 1-based line number
	Raw   string // Raw source line
	Err   error  // Underlying error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("line %d: field %s: %v: %q", e.Line, e.Field, e.Err, e.Raw)
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CodecError represents a document marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// newFieldError wraps err with field context. A nested FieldError is kept
// as the cause so the innermost field stays visible in the message.
func newFieldError(op, field string, err error) error {
	return &FieldError{Field: field, Operation: op, Err: err}
}

// newParseError attaches the source position to err unless it already carries one.
func newParseError(field string, line int, raw string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Field: field, Line: line, Raw: raw, Err: err}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}

// shortBuffer reports how many bytes were needed against how many were supplied.
func shortBuffer(need, have int) error {
	return fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, need, have)
}
