package services

import (
	"errors"
	"fmt"
)

// ErrBadCredentials is returned when a password does not match the
// stored hash. Handlers surface it exactly like a missing user so the
// response never reveals which usernames exist.
var ErrBadCredentials = errors.New("bad credentials")

// ErrStorageDisabled is returned for photo operations when no object
// storage backend is configured.
var ErrStorageDisabled = errors.New("photo storage not configured")

// DuplicateNameError reports a unique-name conflict (brand, category,
// username). The message carries the offending name for the client.
type DuplicateNameError struct {
	Entity string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s with name %s already exists", e.Entity, e.Name)
}

// InvalidArgumentError reports rejected client input with a
// field-level message.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return e.Msg
}

func invalidArgf(format string, args ...any) error {
	return &InvalidArgumentError{Msg: fmt.Sprintf(format, args...)}
}
