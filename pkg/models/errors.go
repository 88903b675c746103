package models

import "errors"

// Typed error taxonomy shared by the store and services. Errors are wrapped
// with context via fmt.Errorf("...: %w", err) and matched with errors.Is;
// the HTTP boundary renders them to a single string message.
var (
	// ErrNotFound is returned when an id has no record.
	ErrNotFound = errors.New("capsule not found")
	// ErrSealed is returned when the current time precedes the unlock date.
	ErrSealed = errors.New("capsule is still sealed")
	// ErrAccessDenied is returned when the access policy denies the viewer.
	ErrAccessDenied = errors.New("access denied")
	// ErrDuplicateID signals an id allocator invariant violation on insert.
	// It should never surface to a caller under normal operation.
	ErrDuplicateID = errors.New("duplicate capsule id")
)
