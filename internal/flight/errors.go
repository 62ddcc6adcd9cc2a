package flight

import (
	"errors"
	"fmt"
)

// ErrNotFinite is returned when an input parses as NaN or ±Inf.
var ErrNotFinite = errors.New("value is not a finite number")

// InvalidInputError is returned when a raw form field cannot be used as a number.
// No computation is performed and the session history is left untouched.
type InvalidInputError struct {
	Field string // Input field name, e.g. "vertical speed"
	Value string // Raw value as entered
	Err   error  // Underlying parse error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Err)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// FileReadError is returned when flight records cannot be loaded.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("reading %s: %s", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// FileWriteError is returned when flight records cannot be saved.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("writing %s: %s", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error {
	return e.Err
}
