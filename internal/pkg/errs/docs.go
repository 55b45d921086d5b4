// Package errs provides standardized error types for the café order-management
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package covers the ambient validation errors:
//   - ValueIsRequiredError: for when a required value is missing
//   - ValueIsInvalidError: for when a value is invalid
//   - ValueIsOutOfRangeError: for when a numeric value is outside its bounds
//   - ObjectNotFoundError: for when an object cannot be found
//
// and the lifecycle-engine taxonomy:
//   - InvalidTransitionError: illegal order lifecycle move
//   - PreconditionFailedError: legal move whose entry precondition failed
//   - NotEditableError: line mutation outside an editable state
//   - StationNotFoundError: no active station for a required type
//   - CorruptSnapshotError: memento checksum mismatch on restore
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrInvalidTransition)
//   - A struct type with fields for error details
//   - Constructor functions, with and without cause where a cause makes sense
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// Empty undo/redo history is intentionally not an error type: the command log
// reports it as a boolean false, since it is an expected steady-state
// condition rather than a failure.
package errs
