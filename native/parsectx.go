package native

import (
	"fmt"
	"strings"
)

// ParseContext threads a human-readable breadcrumb path ("column age ->
// Array -> Nullable") through a decode for diagnostics, without changing
// decode semantics itself. It is purely an error-annotation aid, grounded
// on the original block decoder's practice of carrying a context object
// alongside the byte cursor so a failure deep inside a composite type can
// still report which column and which nesting level it failed at.
type ParseContext struct {
	path []string
}

func NewParseContext() *ParseContext { return &ParseContext{} }

// Push records entry into a nested frame (a column name, or a composite
// kind like "Array" or "Nullable").
func (c *ParseContext) Push(frame string) { c.path = append(c.path, frame) }

// Pop leaves the most recently pushed frame.
func (c *ParseContext) Pop() {
	if len(c.path) > 0 {
		c.path = c.path[:len(c.path)-1]
	}
}

func (c *ParseContext) String() string { return strings.Join(c.path, " -> ") }

// Annotate wraps err with the context's current path. err is preserved as
// the Unwrap target, so errors.Is against any sentinel (ErrLength,
// ErrParse, ...) still matches through the annotation.
func (c *ParseContext) Annotate(err error) error {
	if err == nil || len(c.path) == 0 {
		return err
	}
	return &Error{kind: err, message: fmt.Sprintf("%s (at %s)", err.Error(), c.String())}
}

// DecodeColumn runs decode within a pushed "column <name>" frame, annotating
// any error the decode returns with the full path at the point of failure.
func (c *ParseContext) DecodeColumn(name string, decode func() error) error {
	c.Push("column " + name)
	defer c.Pop()
	if err := decode(); err != nil {
		return c.Annotate(err)
	}
	return nil
}
