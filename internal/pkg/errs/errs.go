package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrValueIsInvalid     = errors.New("value is invalid")
	ErrValueIsOutOfRange  = errors.New("value is out of range")
	ErrValueIsRequired    = errors.New("value is required")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrNotEditable        = errors.New("order is not editable")
	ErrStationNotFound    = errors.New("station not found")
	ErrCorruptSnapshot    = errors.New("snapshot is corrupt")
)

// sanitize collapses newlines so error messages stay single-line in logs.
func sanitize(v any) string {
	return strings.ReplaceAll(strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " "), "\r", " ")
}

// ObjectNotFoundError indicates that an entity could not be located by its identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError for the given parameter and identifier.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a supplied value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError for the given parameter.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a numeric value fell outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError for the given parameter and bounds.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %s)", e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError indicates that a mandatory value was missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError for the given parameter.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidTransitionError indicates an illegal order lifecycle move, such as
// advancing a terminal order or cancelling one that is already READY.
type InvalidTransitionError struct {
	From   string
	Action string
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given action and origin state.
func NewInvalidTransitionError(from, action string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, Action: action}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from %s", ErrInvalidTransition, e.Action, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PreconditionFailedError indicates that a lifecycle transition was legal in the
// state table but its entry precondition did not hold, e.g. advancing to
// IN_PREPARATION with no line items. The order is left unmodified.
type PreconditionFailedError struct {
	State       string
	Requirement string
}

// NewPreconditionFailedError creates a PreconditionFailedError for the given target state.
func NewPreconditionFailedError(state, requirement string) *PreconditionFailedError {
	return &PreconditionFailedError{State: state, Requirement: requirement}
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("%s: %s requires %s", ErrPreconditionFailed, e.State, e.Requirement)
}

func (e *PreconditionFailedError) Unwrap() error {
	return ErrPreconditionFailed
}

// NotEditableError indicates a line-item mutation attempted while the order's
// state forbids editing.
type NotEditableError struct {
	Status string
}

// NewNotEditableError creates a NotEditableError for the given order status.
func NewNotEditableError(status string) *NotEditableError {
	return &NotEditableError{Status: status}
}

func (e *NotEditableError) Error() string {
	return fmt.Sprintf("%s: status is %s", ErrNotEditable, e.Status)
}

func (e *NotEditableError) Unwrap() error {
	return ErrNotEditable
}

// StationNotFoundError indicates that no active station exists for a required
// station type. Routing treats this as a per-line partial failure.
type StationNotFoundError struct {
	StationType string
}

// NewStationNotFoundError creates a StationNotFoundError for the given station type.
func NewStationNotFoundError(stationType string) *StationNotFoundError {
	return &StationNotFoundError{StationType: stationType}
}

func (e *StationNotFoundError) Error() string {
	return fmt.Sprintf("%s: no active station for type %s", ErrStationNotFound, e.StationType)
}

func (e *StationNotFoundError) Unwrap() error {
	return ErrStationNotFound
}

// CorruptSnapshotError indicates a checksum mismatch detected while restoring a memento.
type CorruptSnapshotError struct {
	Tag string
}

// NewCorruptSnapshotError creates a CorruptSnapshotError for the given snapshot tag.
func NewCorruptSnapshotError(tag string) *CorruptSnapshotError {
	return &CorruptSnapshotError{Tag: tag}
}

func (e *CorruptSnapshotError) Error() string {
	return fmt.Sprintf("%s: checksum mismatch for tag %s", ErrCorruptSnapshot, sanitize(e.Tag))
}

func (e *CorruptSnapshotError) Unwrap() error {
	return ErrCorruptSnapshot
}
