package element

import "fmt"

// ReadOnlyError reports a write attempt against a read-only field. The
// underlying document is left untouched.
type ReadOnlyError struct {
	Field string
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("field %q is read-only", e.Field)
}

// MultiplicityError reports a single-valued accessor finding more than one
// underlying value where zero-or-one is expected.
type MultiplicityError struct {
	Field string
	Count int
}

func (e *MultiplicityError) Error() string {
	return fmt.Sprintf("field %q expects at most one value, found %d", e.Field, e.Count)
}
