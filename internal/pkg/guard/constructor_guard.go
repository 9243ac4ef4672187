// Package guard provides a small defensive-construction helper: structs embed
// a ConstructorGuard set only by their constructor, so zero values obtained by
// direct instantiation fail validation instead of flowing through the system.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when a nil error is
// passed, so validation always fails with a meaningful message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard tracks whether an object came through its constructor.
// The zero value is "not constructed".
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for constructed objects and the given error (or
// ErrDefaultConstructorGuard when nil) otherwise.
func (g ConstructorGuard) Validate(err error) error {
	if g.isConstructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
