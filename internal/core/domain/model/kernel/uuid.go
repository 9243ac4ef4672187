package kernel

import (
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates that a UUID was not created through one of
// the constructor functions.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID is the identifier type for order records. It wraps google/uuid and
// tracks whether the value came through a constructor, so zero values read
// back from an uninitialized struct fail validation instead of silently
// acting as the nil UUID.
type UUID struct {
	value         uuid.UUID
	isConstructed bool
}

// NewUUID generates a new random identifier.
func NewUUID() UUID {
	return UUID{value: uuid.New(), isConstructed: true}
}

// UUIDFromString parses an identifier from its canonical string form.
// Used when reconstructing entities from persistence or callback payloads.
func UUIDFromString(s string) (UUID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", err)
	}
	return UUID{value: parsed, isConstructed: true}, nil
}

// UUIDFromBytes restores an identifier from its binary representation.
func UUIDFromBytes(b []byte) (UUID, error) {
	parsed, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", err)
	}
	return UUID{value: parsed, isConstructed: true}, nil
}

// String returns the canonical string form of the identifier.
func (u UUID) String() string {
	return u.value.String()
}

// Bytes returns the underlying google/uuid value for persistence mapping.
func (u UUID) Bytes() uuid.UUID {
	return u.value
}

// IsEqual compares two identifiers by value.
func (u UUID) IsEqual(other UUID) bool {
	return u.value == other.value
}

// Validate reports whether the UUID was properly constructed.
func (u UUID) Validate() error {
	if !u.isConstructed {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
