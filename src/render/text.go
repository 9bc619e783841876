package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/antmicro/servis/src/plotdata"
)

// textBackend renders character-cell plots for terminals and CI logs.
type textBackend struct{}

var (
	textTitleStyle   = lipgloss.NewStyle().Bold(true)
	textCaptionStyle = lipgloss.NewStyle().Faint(true)
)

func (*textBackend) Name() string { return string(KindText) }

func (*textBackend) Capabilities() CapabilityTable {
	return CapabilityTable{FormatTxt: SupportNative}
}

func (*textBackend) RenderPlot(p *plotdata.Plot, cfg *Config) (Handle, error) {
	cfg = cfg.withDefaults()
	var out strings.Builder
	for fi := range p.Figures {
		fig := &p.Figures[fi]
		if fig.Title != "" {
			out.WriteString(textTitleStyle.Render(fig.Title))
			out.WriteString("\n\n")
		}
		for si := range fig.Subplots {
			renderTextSubplot(&out, &fig.Subplots[si], cfg)
			out.WriteString("\n\n")
		}
	}
	return out.String(), nil
}

func (*textBackend) Serialize(h Handle, f Format) ([]byte, error) {
	if f != FormatTxt {
		return nil, fmt.Errorf("%w: %q on text backend", ErrUnsupportedFormat, f)
	}
	s, ok := h.(string)
	if !ok {
		return nil, fmt.Errorf("text backend: bad handle type %T", h)
	}
	return []byte(s), nil
}

func renderTextSubplot(out *strings.Builder, sp *plotdata.Subplot, cfg *Config) {
	if sp.Title != "" {
		out.WriteString(textTitleStyle.Render(sp.Title))
		out.WriteByte('\n')
	}
	if y := sp.YLabel(); y != "" {
		out.WriteString(textCaptionStyle.Render(y))
		out.WriteByte('\n')
	}

	data := make([][]float64, len(sp.Series))
	width := 0
	for i := range sp.Series {
		data[i] = sp.Series[i].Y
		if sp.Series[i].Len() > width {
			width = sp.Series[i].Len()
		}
	}

	opts := []asciigraph.Option{
		asciigraph.Height(12),
		asciigraph.SeriesColors(ansiColors(sp.Colors, len(sp.Series))...),
	}
	if x := sp.XLabel(); x != "" {
		opts = append(opts, asciigraph.Caption(x))
	}
	if sp.YRange != nil {
		opts = append(opts,
			asciigraph.LowerBound(sp.YRange.Min),
			asciigraph.UpperBound(sp.YRange.Max))
	}
	graph := asciigraph.PlotMany(data, opts...)
	out.WriteString(graph)
	out.WriteByte('\n')

	if len(sp.Tags) > 0 {
		for _, line := range tagRuler(sp, width, graphDataOffset(graph)) {
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}
	if sp.Histogram {
		out.WriteByte('\n')
		renderTextHistogram(out, sp, cfg)
	}
}

// graphDataOffset finds the column where plotted data starts: one rune past
// the y-axis border of the first grid row.
func graphDataOffset(graph string) int {
	for _, line := range strings.Split(graph, "\n") {
		for i, r := range []rune(line) {
			if r == '┤' || r == '┼' {
				return i + 1
			}
		}
	}
	return 0
}

// tagRuler draws tags as an extra row under the plot grid: '#' spans for
// interval tags, '|' markers for point tags, followed by one caption per tag.
// The ruler is padded by the axis-label margin so markers line up with the
// data columns. Overlapping intervals are drawn in input order, later tags
// over earlier.
func tagRuler(sp *plotdata.Subplot, width, pad int) []string {
	if width < 2 {
		width = 2
	}
	span := sp.XSpan()
	col := func(x float64) int {
		if span.Max == span.Min {
			return 0
		}
		c := int((x-span.Min)/(span.Max-span.Min)*float64(width-1) + 0.5)
		if c < 0 {
			c = 0
		}
		if c > width-1 {
			c = width - 1
		}
		return c
	}

	ruler := make([]rune, width)
	for i := range ruler {
		ruler[i] = ' '
	}
	captions := make([]string, 0, len(sp.Tags))
	for _, t := range sp.Tags {
		if t.Kind == plotdata.TagInterval {
			for c := col(t.Start); c <= col(t.End); c++ {
				ruler[c] = '#'
			}
			captions = append(captions, fmt.Sprintf("%s: %g..%g", t.Name, t.Start, t.End))
		} else {
			ruler[col(t.Timestamp)] = '|'
			captions = append(captions, fmt.Sprintf("%s @ %g", t.Name, t.Timestamp))
		}
	}
	lines := []string{strings.Repeat(" ", pad) + string(ruler)}
	lines = append(lines, textCaptionStyle.Render("tags: "+strings.Join(captions, ", ")))
	return lines
}

const textHistogramBarWidth = 40

// renderTextHistogram draws the value histogram as horizontal hash bars, one
// row per bin, scaled to the largest count.
func renderTextHistogram(out *strings.Builder, sp *plotdata.Subplot, cfg *Config) {
	ys := sp.YSpan()
	bins := plotdata.HistogramWithBounds(sp.YValues(), cfg.Bins, ys.Min, ys.Max)
	if len(bins) == 0 {
		return
	}
	max := plotdata.MaxCount(bins)
	if max == 0 {
		return
	}
	out.WriteString(textCaptionStyle.Render("value histogram"))
	out.WriteByte('\n')
	for _, b := range bins {
		bar := strings.Repeat("#", b.Count*textHistogramBarWidth/max)
		fmt.Fprintf(out, "%10.3f..%-10.3f |%s %d\n", b.Lo, b.Hi, bar, b.Count)
	}
}

// ansiColors maps hex colors onto the xterm 256-color cube for asciigraph.
func ansiColors(hex []string, n int) []asciigraph.AnsiColor {
	out := make([]asciigraph.AnsiColor, n)
	for i := range out {
		c := plotdata.DefaultColor
		if i < len(hex) {
			c = hex[i]
		}
		out[i] = ansiColor(c)
	}
	return out
}

func ansiColor(hex string) asciigraph.AnsiColor {
	r, g, b, err := plotdata.ParseHexColor(hex)
	if err != nil {
		return asciigraph.Default
	}
	q := func(v uint8) int { return (int(v)*5 + 127) / 255 }
	return asciigraph.AnsiColor(16 + 36*q(r) + 6*q(g) + q(b))
}
