package render

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Namespace that has no entry for a tag. The
// Resolver moves on to the next namespace when it sees it.
var ErrNotFound = errors.New("render: not found")

// ErrUnknownType matches every *UnknownTypeError via errors.Is.
var ErrUnknownType = errors.New("render: unknown type")

// UnknownTypeError reports that no namespace resolves a tag.
type UnknownTypeError struct {
	Kind Kind
	Tag  string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("render: unknown %s type %q", e.Kind, e.Tag)
}

// Is makes errors.Is(err, ErrUnknownType) hold.
func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}
