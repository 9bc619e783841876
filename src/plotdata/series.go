// Package plotdata holds the canonical plot structure and the pure
// computations behind it: layout normalization, value histograms, tag
// validation and color assignment. Nothing here touches a rendering library
// or the filesystem.
package plotdata

import "fmt"

// Series is one x/y-paired numeric sequence. The normalizer guarantees
// len(X) == len(Y) before a Series reaches any backend.
type Series struct {
	Label string
	X     []float64
	Y     []float64
}

func (s *Series) Len() int { return len(s.Y) }

// Range is an explicit numeric interval, used for axis zoom ranges.
type Range struct {
	Min float64
	Max float64
}

// Subplot is one coordinate system hosting one or more series plus optional
// tags and an optional value-histogram side panel. Every optional field is
// resolved by the normalizer: empty string or nil pointer means absent.
type Subplot struct {
	Series []Series
	Tags   []Tag
	// TagKind is meaningful only when Tags is non-empty.
	TagKind TagKind

	Title  string
	XTitle string
	XUnit  string
	YTitle string
	YUnit  string

	XRange *Range
	YRange *Range

	// XTimestamp marks x values as wall-clock seconds; it affects tick
	// formatting only, never the data.
	XTimestamp bool

	// Histogram enables the value-histogram side panel.
	Histogram bool

	// Colors carries one color per series, assigned before rendering.
	Colors []string
}

// Figure is a titled ordered group of subplots rendered together.
type Figure struct {
	Title    string
	Subplots []Subplot
}

// Plot is a fully normalized render request: every collapsed input shape has
// been expanded to this form before any backend runs.
type Plot struct {
	Title   string
	Figures []Figure
}

// Subplots counts subplots across all figures.
func (p *Plot) Subplots() int {
	n := 0
	for i := range p.Figures {
		n += len(p.Figures[i].Subplots)
	}
	return n
}

// axisLabel joins a title and unit the way axis captions are displayed.
func axisLabel(title, unit string) string {
	if title == "" {
		return ""
	}
	if unit == "" {
		return title
	}
	return fmt.Sprintf("%s [%s]", title, unit)
}

// XLabel returns the x axis caption ("title [unit]", or empty).
func (sp *Subplot) XLabel() string { return axisLabel(sp.XTitle, sp.XUnit) }

// YLabel returns the y axis caption.
func (sp *Subplot) YLabel() string { return axisLabel(sp.YTitle, sp.YUnit) }

// YSpan returns the y extent of the subplot's data, or the explicit YRange
// when one was supplied.
func (sp *Subplot) YSpan() Range {
	if sp.YRange != nil {
		return *sp.YRange
	}
	lo, hi := sp.Series[0].Y[0], sp.Series[0].Y[0]
	for i := range sp.Series {
		for _, v := range sp.Series[i].Y {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return Range{Min: lo, Max: hi}
}

// XSpan returns the x extent to draw. It covers all series and is widened to
// include every tag position, so tags outside the data are still visible.
// An explicit XRange overrides the computed extent.
func (sp *Subplot) XSpan() Range {
	if sp.XRange != nil {
		return *sp.XRange
	}
	lo, hi := sp.Series[0].X[0], sp.Series[0].X[0]
	for i := range sp.Series {
		for _, v := range sp.Series[i].X {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	for _, t := range sp.Tags {
		tlo, thi := t.span()
		if tlo < lo {
			lo = tlo
		}
		if thi > hi {
			hi = thi
		}
	}
	return Range{Min: lo, Max: hi}
}

// YValues flattens all series y values of the subplot, preserving order.
// Used for the shared histogram range.
func (sp *Subplot) YValues() []float64 {
	var out []float64
	for i := range sp.Series {
		out = append(out, sp.Series[i].Y...)
	}
	return out
}
