package errors

import (
	"errors"
	"fmt"
)

// ResourceNotFoundError indicates a resource was not found.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind string, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewEntryNotFoundError(site string) *ResourceNotFoundError {
	return NewResourceNotFoundError("entry", site)
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// StorageUnavailableError indicates the backing file cannot be opened, created or migrated.
type StorageUnavailableError struct {
	Path string
	Err  error
}

func NewStorageUnavailableError(path string, err error) *StorageUnavailableError {
	return &StorageUnavailableError{Path: path, Err: err}
}

func (e *StorageUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage %s unavailable", e.Path)
	}
	return fmt.Sprintf("storage %s unavailable: %v", e.Path, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

func IsStorageUnavailableError(err error) bool {
	var e *StorageUnavailableError
	return errors.As(err, &e)
}

// StorageLockedError indicates another handle already holds the backing file.
type StorageLockedError struct {
	Path string
}

func NewStorageLockedError(path string) *StorageLockedError {
	return &StorageLockedError{Path: path}
}

func (e *StorageLockedError) Error() string {
	return fmt.Sprintf("storage %s is locked by another process", e.Path)
}

func IsStorageLockedError(err error) bool {
	var e *StorageLockedError
	return errors.As(err, &e)
}

// InvalidArgumentError indicates a precondition on an input value was violated.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func NewInvalidArgumentError(field, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Reason: reason}
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsInvalidArgumentError(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}
