package omm

import "fmt"

// StructuralError reports a malformed message skeleton: wrong root tag,
// missing header/body/segment/metadata/data, or more than one segment.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string { return e.Msg }

func structuralf(format string, args ...interface{}) error {
	return &StructuralError{Msg: fmt.Sprintf(format, args...)}
}

// RequiredFieldError reports a required field that was absent after its parent
// group was fully scanned. Tag is the CCSDS tag name.
type RequiredFieldError struct {
	Field string
	Tag   string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("required field %s (%s) is missing", e.Field, e.Tag)
}

// FormatError reports text that was present but failed to parse as the
// expected numeric, timestamp or version type.
type FormatError struct {
	Tag   string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Tag, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// UnsupportedVersionError reports an OMM version attribute outside the
// supported 2.x-3.x range.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported OMM version %q (supported: >= 2.0, < 4.0)", e.Version)
}
