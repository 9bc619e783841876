package plotdata

import "fmt"

// TagKind selects the tag variant of a subplot's tag list.
type TagKind int

const (
	// TagPoint marks a labeled instant on the x axis ("single").
	TagPoint TagKind = iota
	// TagInterval marks a labeled span on the x axis ("double").
	TagInterval
)

func (k TagKind) String() string {
	if k == TagInterval {
		return "double"
	}
	return "single"
}

// ParseTagKind maps the wire names "single" and "double" onto tag kinds.
func ParseTagKind(s string) (TagKind, error) {
	switch s {
	case "single":
		return TagPoint, nil
	case "double":
		return TagInterval, nil
	default:
		return TagPoint, fmt.Errorf("unknown tag kind %q (want \"single\" or \"double\")", s)
	}
}

// Tag is a labeled annotation on a subplot's x axis. Point tags use Timestamp,
// interval tags use Start/End. Tags never affect data, only the drawn range.
type Tag struct {
	Name      string
	Kind      TagKind
	Timestamp float64
	Start     float64
	End       float64
}

// PointTag builds a "single" tag at the given instant.
func PointTag(name string, timestamp float64) Tag {
	return Tag{Name: name, Kind: TagPoint, Timestamp: timestamp}
}

// IntervalTag builds a "double" tag spanning [start, end].
func IntervalTag(name string, start, end float64) Tag {
	return Tag{Name: name, Kind: TagInterval, Start: start, End: end}
}

// shifted moves a tag along the x axis, used when x values are trimmed.
func (t Tag) shifted(offset float64) Tag {
	t.Timestamp += offset
	t.Start += offset
	t.End += offset
	return t
}

// span returns the x extent covered by the tag.
func (t Tag) span() (lo, hi float64) {
	if t.Kind == TagInterval {
		return t.Start, t.End
	}
	return t.Timestamp, t.Timestamp
}

// validateTags checks homogeneity of one subplot's tag list. When declared is
// nil the kind is inferred from the first tag; an inconsistent list fails with
// TagVariantMismatchError either way. Interval bounds are checked too.
func validateTags(subplot int, tags []Tag, declared *TagKind) (TagKind, error) {
	if len(tags) == 0 {
		if declared != nil {
			return *declared, nil
		}
		return TagPoint, nil
	}
	kind := tags[0].Kind
	if declared != nil {
		kind = *declared
	}
	for _, t := range tags {
		if t.Kind != kind {
			return kind, &TagVariantMismatchError{Subplot: subplot, Want: kind, Got: t.Kind}
		}
		if t.Kind == TagInterval && t.Start > t.End {
			return kind, fmt.Errorf("interval tag %q: start %g after end %g", t.Name, t.Start, t.End)
		}
	}
	return kind, nil
}
