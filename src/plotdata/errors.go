package plotdata

import "fmt"

// EmptyInputError signals that there is nothing to plot. Nothing is rendered
// and no output files are produced.
type EmptyInputError struct {
	What string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("empty input: %s", e.What)
}

// ShapeMismatchError signals that a nested collection's length disagrees with
// the y-data at the same nesting level. Raised before any rendering happens.
type ShapeMismatchError struct {
	Field string
	Level string // "figures", "subplots", "series" or "samples"
	Want  int
	Got   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s has %d entries, want %d (%s level)",
		e.Field, e.Got, e.Want, e.Level)
}

// TagVariantMismatchError signals mixed point/interval tags inside one subplot.
type TagVariantMismatchError struct {
	Subplot int
	Want    TagKind
	Got     TagKind
}

func (e *TagVariantMismatchError) Error() string {
	return fmt.Sprintf("tag variant mismatch in subplot %d: got %q, want %q",
		e.Subplot, e.Got, e.Want)
}
