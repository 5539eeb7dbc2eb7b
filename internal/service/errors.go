package service

import "fmt"

// ValidationError reports missing or malformed client input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that no recipe has the requested identifier
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Recipe with id %s not found", e.ID)
}

// StorageError wraps a persistence failure. Message is safe to show clients;
// Err is the underlying cause and only goes to logs.
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
