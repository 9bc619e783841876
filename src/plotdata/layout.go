package plotdata

import "fmt"

// Request carries caller input in any of its legal collapsed forms. Y accepts
// four nesting depths:
//
//	[]float64           one series, one subplot, one figure
//	[][]float64         multiple series, one subplot
//	[][][]float64       multiple subplots, one figure
//	[][][][]float64     multiple figures
//
// X follows the same family at any depth not deeper than Y and is broadcast
// downward; nil X means auto-indexed samples. The remaining fields accept a
// scalar (applied everywhere), a flat list (aligned to subplots when there is
// one figure, to figures otherwise) or a fully nested list. Normalize is the
// only place shapes are inspected; everything downstream works on the
// canonical Plot.
type Request struct {
	Y any
	X any

	Title     string
	Subtitles any
	XTitles   any
	XUnits    any
	YTitles   any
	YUnits    any

	XRanges any // *Range, []*Range or [][]*Range
	YRanges any

	Tags     any // []Tag, [][]Tag or [][][]Tag
	TagKinds any // "single"/"double" strings or TagKind values, scalar or per subplot

	LegendLabels []string

	XTimestamp    bool
	TrimXValues   bool
	SkipFirst     bool
	WithHistogram bool
}

// Normalize expands a Request into the canonical Figure/Subplot/Series tree.
// All shape validation happens here; a returned error guarantees nothing was
// rendered or written.
func Normalize(req Request) (*Plot, error) {
	y, err := canonY(req.Y)
	if err != nil {
		return nil, err
	}

	nsubs := make([]int, len(y))
	for f := range y {
		if len(y[f]) == 0 {
			return nil, &EmptyInputError{What: fmt.Sprintf("figure %d has no subplots", f)}
		}
		nsubs[f] = len(y[f])
	}

	xPick, err := canonX(req.X, y)
	if err != nil {
		return nil, err
	}

	subtitles, err := resolveField[string]("subtitles", req.Subtitles, nsubs)
	if err != nil {
		return nil, err
	}
	xtitles, err := resolveField[string]("xtitles", req.XTitles, nsubs)
	if err != nil {
		return nil, err
	}
	xunits, err := resolveField[string]("xunits", req.XUnits, nsubs)
	if err != nil {
		return nil, err
	}
	ytitles, err := resolveField[string]("ytitles", req.YTitles, nsubs)
	if err != nil {
		return nil, err
	}
	yunits, err := resolveField[string]("yunits", req.YUnits, nsubs)
	if err != nil {
		return nil, err
	}
	xranges, err := resolveField[*Range]("x_ranges", canonRange(req.XRanges), nsubs)
	if err != nil {
		return nil, err
	}
	yranges, err := resolveField[*Range]("y_ranges", canonRange(req.YRanges), nsubs)
	if err != nil {
		return nil, err
	}
	tags, err := resolveField[[]Tag]("tags", req.Tags, nsubs)
	if err != nil {
		return nil, err
	}
	kindsAny, err := canonTagKinds(req.TagKinds)
	if err != nil {
		return nil, err
	}
	kinds, err := resolveField[*TagKind]("tagstype", kindsAny, nsubs)
	if err != nil {
		return nil, err
	}

	plot := &Plot{Title: req.Title, Figures: make([]Figure, len(y))}
	subIdx := 0
	for f := range y {
		fig := Figure{Title: req.Title, Subplots: make([]Subplot, len(y[f]))}
		for s := range y[f] {
			if len(y[f][s]) == 0 {
				return nil, &EmptyInputError{What: fmt.Sprintf("subplot %d has no series", subIdx)}
			}
			sp := Subplot{
				Title:      subtitles[f][s],
				XTitle:     xtitles[f][s],
				XUnit:      xunits[f][s],
				YTitle:     ytitles[f][s],
				YUnit:      yunits[f][s],
				XRange:     xranges[f][s],
				YRange:     yranges[f][s],
				XTimestamp: req.XTimestamp,
				Histogram:  req.WithHistogram,
			}
			for r := range y[f][s] {
				series, err := buildSeries(y[f][s][r], xPick(f, s, r), req.SkipFirst)
				if err != nil {
					return nil, err
				}
				if r < len(req.LegendLabels) {
					series.Label = req.LegendLabels[r]
				}
				sp.Series = append(sp.Series, series)
			}
			kind, err := validateTags(subIdx, tags[f][s], kinds[f][s])
			if err != nil {
				return nil, err
			}
			// Copy: broadcast tags share one backing array across subplots,
			// and trimX below shifts tags in place.
			sp.Tags = append([]Tag(nil), tags[f][s]...)
			sp.TagKind = kind
			if req.TrimXValues {
				sp.trimX()
			}
			fig.Subplots[s] = sp
			subIdx++
		}
		plot.Figures[f] = fig
	}
	return plot, nil
}

// canonY classifies the y input's nesting depth and expands it to the full
// figures -> subplots -> series shape.
func canonY(v any) ([][][][]float64, error) {
	switch y := v.(type) {
	case nil:
		return nil, &EmptyInputError{What: "no y data"}
	case []float64:
		if len(y) == 0 {
			return nil, &EmptyInputError{What: "no y data"}
		}
		return [][][][]float64{{{y}}}, nil
	case [][]float64:
		if len(y) == 0 {
			return nil, &EmptyInputError{What: "no y data"}
		}
		return [][][][]float64{{y}}, nil
	case [][][]float64:
		if len(y) == 0 {
			return nil, &EmptyInputError{What: "no y data"}
		}
		return [][][][]float64{y}, nil
	case [][][][]float64:
		if len(y) == 0 {
			return nil, &EmptyInputError{What: "no y data"}
		}
		return y, nil
	default:
		return nil, fmt.Errorf("unsupported y data type %T", v)
	}
}

// canonX validates the x input against the expanded y shape and returns a
// picker yielding the x slice for a given figure/subplot/series, or nil when
// samples should be auto-indexed. Shallower x is replicated downward.
func canonX(v any, y [][][][]float64) (func(f, s, r int) []float64, error) {
	switch x := v.(type) {
	case nil:
		return func(f, s, r int) []float64 { return nil }, nil
	case []float64:
		return func(f, s, r int) []float64 { return x }, nil
	case [][]float64:
		if len(y) == 1 {
			if len(x) != len(y[0]) {
				return nil, &ShapeMismatchError{Field: "xdata", Level: "subplots", Want: len(y[0]), Got: len(x)}
			}
			return func(f, s, r int) []float64 { return x[s] }, nil
		}
		if len(x) != len(y) {
			return nil, &ShapeMismatchError{Field: "xdata", Level: "figures", Want: len(y), Got: len(x)}
		}
		return func(f, s, r int) []float64 { return x[f] }, nil
	case [][][]float64:
		if len(y) == 1 {
			if len(x) != len(y[0]) {
				return nil, &ShapeMismatchError{Field: "xdata", Level: "subplots", Want: len(y[0]), Got: len(x)}
			}
			for s := range x {
				if len(x[s]) != len(y[0][s]) {
					return nil, &ShapeMismatchError{Field: "xdata", Level: "series", Want: len(y[0][s]), Got: len(x[s])}
				}
			}
			return func(f, s, r int) []float64 { return x[s][r] }, nil
		}
		if len(x) != len(y) {
			return nil, &ShapeMismatchError{Field: "xdata", Level: "figures", Want: len(y), Got: len(x)}
		}
		for f := range x {
			if len(x[f]) != len(y[f]) {
				return nil, &ShapeMismatchError{Field: "xdata", Level: "subplots", Want: len(y[f]), Got: len(x[f])}
			}
		}
		return func(f, s, r int) []float64 { return x[f][s] }, nil
	case [][][][]float64:
		if len(x) != len(y) {
			return nil, &ShapeMismatchError{Field: "xdata", Level: "figures", Want: len(y), Got: len(x)}
		}
		for f := range x {
			if len(x[f]) != len(y[f]) {
				return nil, &ShapeMismatchError{Field: "xdata", Level: "subplots", Want: len(y[f]), Got: len(x[f])}
			}
			for s := range x[f] {
				if len(x[f][s]) != len(y[f][s]) {
					return nil, &ShapeMismatchError{Field: "xdata", Level: "series", Want: len(y[f][s]), Got: len(x[f][s])}
				}
			}
		}
		return func(f, s, r int) []float64 { return x[f][s][r] }, nil
	default:
		return nil, fmt.Errorf("unsupported x data type %T", v)
	}
}

func buildSeries(yv, xv []float64, skipFirst bool) (Series, error) {
	if xv == nil {
		xv = make([]float64, len(yv))
		for i := range xv {
			xv[i] = float64(i)
		}
	}
	if len(xv) != len(yv) {
		return Series{}, &ShapeMismatchError{Field: "xdata", Level: "samples", Want: len(yv), Got: len(xv)}
	}
	if skipFirst {
		if len(yv) <= 1 {
			return Series{}, &EmptyInputError{What: "series empty after skipping first sample"}
		}
		yv, xv = yv[1:], xv[1:]
	}
	// Copy so later trimming never mutates caller slices.
	s := Series{X: append([]float64(nil), xv...), Y: append([]float64(nil), yv...)}
	return s, nil
}

// trimX shifts the subplot so its smallest x value becomes zero. Tags move by
// the same offset, keeping them anchored to the shifted samples.
func (sp *Subplot) trimX() {
	min := sp.Series[0].X[0]
	for i := range sp.Series {
		for _, v := range sp.Series[i].X {
			if v < min {
				min = v
			}
		}
	}
	if min == 0 {
		return
	}
	for i := range sp.Series {
		for j := range sp.Series[i].X {
			sp.Series[i].X[j] -= min
		}
	}
	for i := range sp.Tags {
		sp.Tags[i] = sp.Tags[i].shifted(-min)
	}
	if sp.XRange != nil {
		sp.XRange = &Range{Min: sp.XRange.Min - min, Max: sp.XRange.Max - min}
	}
}

// resolveField broadcasts one optional field over every subplot position.
// nil fills zero values; a scalar T fills everything; []T aligns to subplots
// when there is a single figure and to figures otherwise; [][]T must match
// the figure/subplot shape exactly.
func resolveField[T any](field string, v any, nsubs []int) ([][]T, error) {
	nfigs := len(nsubs)
	out := make([][]T, nfigs)
	for f := range out {
		out[f] = make([]T, nsubs[f])
	}
	if v == nil {
		return out, nil
	}
	if scalar, ok := v.(T); ok {
		for f := range out {
			for s := range out[f] {
				out[f][s] = scalar
			}
		}
		return out, nil
	}
	if flat, ok := v.([]T); ok {
		if nfigs == 1 {
			if len(flat) != nsubs[0] {
				return nil, &ShapeMismatchError{Field: field, Level: "subplots", Want: nsubs[0], Got: len(flat)}
			}
			copy(out[0], flat)
			return out, nil
		}
		if len(flat) != nfigs {
			return nil, &ShapeMismatchError{Field: field, Level: "figures", Want: nfigs, Got: len(flat)}
		}
		for f := range out {
			for s := range out[f] {
				out[f][s] = flat[f]
			}
		}
		return out, nil
	}
	if nested, ok := v.([][]T); ok {
		if len(nested) != nfigs {
			return nil, &ShapeMismatchError{Field: field, Level: "figures", Want: nfigs, Got: len(nested)}
		}
		for f := range nested {
			if len(nested[f]) != nsubs[f] {
				return nil, &ShapeMismatchError{Field: field, Level: "subplots", Want: nsubs[f], Got: len(nested[f])}
			}
			copy(out[f], nested[f])
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: unsupported type %T", field, v)
}

// canonRange lets callers pass Range values where *Range is expected.
func canonRange(v any) any {
	switch r := v.(type) {
	case Range:
		return &r
	case []Range:
		out := make([]*Range, len(r))
		for i := range r {
			out[i] = &r[i]
		}
		return out
	default:
		return v
	}
}

// canonTagKinds converts the accepted tagstype spellings into *TagKind form.
func canonTagKinds(v any) (any, error) {
	switch k := v.(type) {
	case nil:
		return nil, nil
	case string:
		kind, err := ParseTagKind(k)
		if err != nil {
			return nil, err
		}
		return &kind, nil
	case TagKind:
		kind := k
		return &kind, nil
	case *TagKind:
		return k, nil
	case []string:
		out := make([]*TagKind, len(k))
		for i := range k {
			kind, err := ParseTagKind(k[i])
			if err != nil {
				return nil, err
			}
			out[i] = &kind
		}
		return out, nil
	case []TagKind:
		out := make([]*TagKind, len(k))
		for i := range k {
			kind := k[i]
			out[i] = &kind
		}
		return out, nil
	case []*TagKind:
		return k, nil
	default:
		return nil, fmt.Errorf("tagstype: unsupported type %T", v)
	}
}
