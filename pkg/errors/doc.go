// Package errors provides custom error types for password-saver.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌──────────────────────────┬──────┬──────────────────────────────────────┐
//	│ Error Type               │ Exit │ Description                          │
//	├──────────────────────────┼──────┼──────────────────────────────────────┤
//	│ ResourceNotFoundError    │ 1    │ No entry stored for the site         │
//	│ StorageUnavailableError  │ 1    │ Backing file cannot be opened        │
//	│ StorageLockedError       │ 1    │ Backing file held by another handle  │
//	│ InvalidArgumentError     │ 1    │ Input violates a precondition        │
//	└──────────────────────────┴──────┴──────────────────────────────────────┘
//
// # ResourceNotFoundError
//
// A normal negative result of a lookup or delete on an absent key. Callers
// render it as "no such entry" rather than as a failure.
//
// Constructors:
//   - NewResourceNotFoundError(kind, id string)
//   - NewEntryNotFoundError(site string)
//
// # StorageUnavailableError
//
// The backing path could not be opened, created or migrated (permission
// denied, missing directory, disk full, unreadable file). The underlying
// cause is kept and returned by Unwrap.
//
// Constructor:
//   - NewStorageUnavailableError(path string, err error)
//
// # StorageLockedError
//
// Another store handle, in this process or another one, holds the lock file
// next to the backing path.
//
// Constructor:
//   - NewStorageLockedError(path string)
//
// # InvalidArgumentError
//
// Returned before touching storage when an argument is rejected, e.g. an
// empty site.
//
// Constructor:
//   - NewInvalidArgumentError(field, reason string)
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As:
//
//	wrapped := fmt.Errorf("remove: %w", errors.NewEntryNotFoundError("bank.com"))
//	errors.IsResourceNotFoundError(wrapped) // returns true
//
// # Presentation Mapping
//
// The menu and the commands map errors to messages:
//
//	switch {
//	case errors.IsResourceNotFoundError(err):
//	    fmt.Fprintln(out, "No such website found.")
//	case errors.IsStorageLockedError(err):
//	    fmt.Fprintln(out, "Password file is in use by another process.")
//	default:
//	    fmt.Fprintf(out, "Error: %v\n", err)
//	}
package errors
