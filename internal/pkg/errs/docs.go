// Package errs provides standardized error types for the dispatch application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Each error type follows the same shape:
//   - A sentinel error variable (e.g. ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is works against the sentinel
//
// Conflict errors that belong to the order life cycle (active order exists,
// order not available, ownership mismatch, already terminal) are defined as
// sentinels in the order package, next to the state machine that produces them.
package errs
