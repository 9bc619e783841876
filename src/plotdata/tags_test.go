package plotdata

import (
	"errors"
	"testing"
)

func TestParseTagKind(t *testing.T) {
	if k, err := ParseTagKind("single"); err != nil || k != TagPoint {
		t.Fatalf("single: %v %v", k, err)
	}
	if k, err := ParseTagKind("double"); err != nil || k != TagInterval {
		t.Fatalf("double: %v %v", k, err)
	}
	if _, err := ParseTagKind("triple"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestValidateTags_InferredFromFirst(t *testing.T) {
	kind, err := validateTags(0, []Tag{PointTag("a", 1), PointTag("b", 2)}, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if kind != TagPoint {
		t.Fatalf("inferred kind %v, want point", kind)
	}
}

func TestValidateTags_MixedVariantsFail(t *testing.T) {
	_, err := validateTags(3, []Tag{PointTag("a", 1), IntervalTag("b", 2, 4)}, nil)
	var mismatch *TagVariantMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("got %v, want TagVariantMismatchError", err)
	}
	if mismatch.Subplot != 3 {
		t.Fatalf("wrong subplot index %d", mismatch.Subplot)
	}
}

func TestValidateTags_DeclaredKindOverridesInference(t *testing.T) {
	declared := TagInterval
	_, err := validateTags(0, []Tag{PointTag("a", 1)}, &declared)
	var mismatch *TagVariantMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("got %v, want TagVariantMismatchError against declared kind", err)
	}
}

func TestValidateTags_IntervalBounds(t *testing.T) {
	_, err := validateTags(0, []Tag{IntervalTag("rev", 5, 2)}, nil)
	if err == nil {
		t.Fatalf("expected error for start after end")
	}
}

func TestTagShifted(t *testing.T) {
	tag := IntervalTag("a", 10, 20).shifted(-10)
	if tag.Start != 0 || tag.End != 10 {
		t.Fatalf("shift wrong: %+v", tag)
	}
}
