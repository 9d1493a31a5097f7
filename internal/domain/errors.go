package domain

import (
	"errors"
	"fmt"
)

// FormatError reports an operand that does not match the shape its field
// accepts. The message names the expected shape, e.g. "should have valid date format".
type FormatError struct {
	Field   string
	Message string
}

func (e FormatError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// UnknownFieldError is raised when a sort request names a field outside the
// resource allow-list.
type UnknownFieldError struct {
	Field string
}

func (e UnknownFieldError) Error() string {
	return "Invalid sort field: " + e.Field
}

type NotFoundError struct {
	Resource string
	Key      string
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource == "":
		return "not found"
	case e.Key == "":
		return fmt.Sprintf("%s not found", e.Resource)
	default:
		return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
	}
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a client-correctable request error.
func IsValidation(err error) bool {
	var format FormatError
	if errors.As(err, &format) {
		return true
	}
	var unknown UnknownFieldError
	return errors.As(err, &unknown)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}
