package render

import (
	"strings"
	"testing"

	"github.com/antmicro/servis/src/plotdata"
)

func textPlot(t *testing.T, req plotdata.Request) *plotdata.Plot {
	t.Helper()
	p, err := plotdata.Normalize(req)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for fi := range p.Figures {
		for si := range p.Figures[fi].Subplots {
			sp := &p.Figures[fi].Subplots[si]
			sp.Colors = plotdata.AssignColors(len(sp.Series), nil, false)
		}
	}
	return p
}

func renderText(t *testing.T, p *plotdata.Plot, cfg *Config) string {
	t.Helper()
	b := &textBackend{}
	h, err := b.RenderPlot(p, cfg)
	if err != nil {
		t.Fatalf("RenderPlot: %v", err)
	}
	data, err := b.Serialize(h, FormatTxt)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty text output")
	}
	return string(data)
}

func TestTextRenderWithIntervalTag(t *testing.T) {
	p := textPlot(t, plotdata.Request{
		Y:    []float64{1, 2, 4, 8, 16},
		X:    []float64{0, 1, 2, 3, 4},
		Tags: []plotdata.Tag{plotdata.IntervalTag("A", 1, 3)},
	})
	out := renderText(t, p, nil)

	if !strings.Contains(out, "#") {
		t.Fatalf("no interval shading in output:\n%s", out)
	}
	if !strings.Contains(out, "A: 1..3") {
		t.Fatalf("missing tag caption:\n%s", out)
	}
}

func TestTextRenderPointTagMarker(t *testing.T) {
	p := textPlot(t, plotdata.Request{
		Y:    []float64{3, 1, 4, 1, 5},
		Tags: []plotdata.Tag{plotdata.PointTag("deploy", 2)},
	})
	out := renderText(t, p, nil)

	if !strings.Contains(out, "|") {
		t.Fatalf("no point marker in output:\n%s", out)
	}
	if !strings.Contains(out, "deploy @ 2") {
		t.Fatalf("missing tag caption:\n%s", out)
	}
}

func TestTextRenderHistogramPanel(t *testing.T) {
	p := textPlot(t, plotdata.Request{
		Y:             []float64{1, 1, 2, 2, 2, 3},
		WithHistogram: true,
	})
	out := renderText(t, p, &Config{Bins: 3})

	if !strings.Contains(out, "value histogram") {
		t.Fatalf("missing histogram panel:\n%s", out)
	}
}

func TestTextRenderTitlesAndUnits(t *testing.T) {
	p := textPlot(t, plotdata.Request{
		Y:         []float64{1, 2, 3},
		Title:     "Quality",
		Subtitles: "latency",
		XTitles:   "time",
		XUnits:    "s",
		YTitles:   "rtt",
		YUnits:    "ms",
	})
	out := renderText(t, p, nil)

	for _, want := range []string{"latency", "time [s]", "rtt [ms]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextSerializeRejectsOtherFormats(t *testing.T) {
	b := &textBackend{}
	h, err := b.RenderPlot(&plotdata.Plot{}, nil)
	if err != nil {
		t.Fatalf("RenderPlot: %v", err)
	}
	if _, err := b.Serialize(h, FormatPNG); err == nil {
		t.Fatalf("png on text backend should fail")
	}
}

func TestTagRulerColumns(t *testing.T) {
	sp := &plotdata.Subplot{
		Series: []plotdata.Series{{X: []float64{0, 1, 2, 3, 4}, Y: []float64{0, 0, 0, 0, 0}}},
		Tags:   []plotdata.Tag{plotdata.IntervalTag("A", 1, 3)},
	}
	lines := tagRuler(sp, 5, 0)
	if len(lines) < 2 {
		t.Fatalf("tagRuler returned %d lines", len(lines))
	}
	if lines[0] != " ### " {
		t.Fatalf("ruler = %q, want %q", lines[0], " ### ")
	}
	padded := tagRuler(sp, 5, 3)
	if padded[0] != "    ### " {
		t.Fatalf("padded ruler = %q, want %q", padded[0], "    ### ")
	}
}

// stripEscapes removes ANSI color sequences so column positions can be
// measured on the visible grid.
func stripEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestTagRulerAlignsWithGridColumns(t *testing.T) {
	p := textPlot(t, plotdata.Request{
		Y:    []float64{1, 2, 4, 8, 16},
		Tags: []plotdata.Tag{plotdata.IntervalTag("A", 1, 3)},
	})
	out := renderText(t, p, nil)

	axisCol := -1
	rulerCol := -1
	for _, line := range strings.Split(out, "\n") {
		line = stripEscapes(line)
		runes := []rune(line)
		for i, r := range runes {
			if (r == '┤' || r == '┼') && axisCol < 0 {
				axisCol = i
			}
			if r == '#' && rulerCol < 0 && !strings.ContainsRune(line, '┤') {
				rulerCol = i
				break
			}
		}
	}
	if axisCol < 0 || rulerCol < 0 {
		t.Fatalf("grid or ruler not found:\n%s", out)
	}
	// markers sit inside the data region, past the y-axis border
	if rulerCol <= axisCol {
		t.Fatalf("ruler column %d not past axis column %d:\n%s", rulerCol, axisCol, out)
	}
}

func TestTextGridColumnsMatchSampleCount(t *testing.T) {
	y := []float64{1, 2, 4, 8, 16}
	p := textPlot(t, plotdata.Request{Y: y})
	out := renderText(t, p, nil)

	// Re-parsing the grid recovers the input's x-positions: the widest grid
	// row spans exactly one column per sample past the axis border.
	maxData := 0
	for _, line := range strings.Split(out, "\n") {
		runes := []rune(stripEscapes(line))
		axis := -1
		for i, r := range runes {
			if r == '┤' || r == '┼' {
				axis = i
				break
			}
		}
		if axis < 0 {
			continue
		}
		if w := len(runes) - axis - 1; w > maxData {
			maxData = w
		}
	}
	if maxData != len(y) {
		t.Fatalf("grid spans %d data columns, want %d:\n%s", maxData, len(y), out)
	}
}
