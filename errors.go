package ktchn

import "errors"

var (
	// ErrInvalidNumber reports a quantity that cannot be stored: negative,
	// not finite, or undefined.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrUndefined reports an attempt to store or encode an undefined Number.
	ErrUndefined = errors.New("undefined number")

	// ErrUnsupportedEdit reports an edit applied to a record kind that has no
	// such field.
	ErrUnsupportedEdit = errors.New("unsupported edit")

	// ErrDuplicateID reports an identifier already in use in its collection.
	ErrDuplicateID = errors.New("duplicate id")
)
