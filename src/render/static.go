package render

import (
	"bytes"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/antmicro/servis/src/plotdata"
)

// staticBackend renders vector/raster images directly. PNG and SVG are
// native; JPG re-encodes the composed PNG.
type staticBackend struct{}

type staticHandle struct {
	plot *plotdata.Plot
	cfg  *Config
}

// tagLineColor matches the dashed marker color used across backends.
var tagLineColor = drawing.Color{R: 0x42, G: 0x4B, B: 0x54, A: 255}

const titleBandHeight = 28

func (*staticBackend) Name() string { return string(KindStatic) }

func (*staticBackend) Capabilities() CapabilityTable {
	return CapabilityTable{
		FormatPNG: SupportNative,
		FormatSVG: SupportNative,
		FormatJPG: SupportNative,
	}
}

func (*staticBackend) RenderPlot(p *plotdata.Plot, cfg *Config) (Handle, error) {
	return &staticHandle{plot: p, cfg: cfg.withDefaults()}, nil
}

func (b *staticBackend) Serialize(h Handle, f Format) ([]byte, error) {
	sh, ok := h.(*staticHandle)
	if !ok {
		return nil, fmt.Errorf("static backend: bad handle type %T", h)
	}
	switch f {
	case FormatPNG:
		return composeRaster(sh, false)
	case FormatJPG:
		return composeRaster(sh, true)
	case FormatSVG:
		return composeSVG(sh)
	default:
		return nil, fmt.Errorf("%w: %q on static-image backend", ErrUnsupportedFormat, f)
	}
}

// subplotCharts builds the go-chart objects for one subplot: the time-series
// panel and, when enabled, the histogram side panel sharing its y scale.
func subplotCharts(sp *plotdata.Subplot, cfg *Config, rowHeight int) (chart.Chart, *chart.Chart) {
	mainWidth := cfg.Width
	if sp.Histogram {
		mainWidth = cfg.Width * 8 / 11
	}

	var series []chart.Series
	ys := sp.YSpan()
	xs := sp.XSpan()

	series = append(series, tagSeries(sp, ys)...)
	for i := range sp.Series {
		s := &sp.Series[i]
		col := drawing.ColorFromHex(strings.TrimPrefix(colorAt(sp, i), "#"))
		style := chart.Style{StrokeColor: col, StrokeWidth: 2, DotWidth: 3, DotColor: col}
		if cfg.PlotType == "scatter" {
			style.StrokeWidth = chart.Disabled
			style.DotWidth = 4
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Label,
			XValues: s.X,
			YValues: s.Y,
			Style:   style,
		})
	}

	xAxis := chart.XAxis{
		Name:  sp.XLabel(),
		Range: &chart.ContinuousRange{Min: xs.Min, Max: xs.Max},
	}
	if sp.XTimestamp {
		xAxis.ValueFormatter = func(v interface{}) string {
			fv, ok := v.(float64)
			if !ok {
				return ""
			}
			return time.Unix(int64(fv), 0).UTC().Format("15:04:05")
		}
	}
	yAxis := chart.YAxis{Name: sp.YLabel()}
	if sp.YRange != nil {
		yAxis.Range = &chart.ContinuousRange{Min: sp.YRange.Min, Max: sp.YRange.Max}
	}

	main := chart.Chart{
		Title:      sp.Title,
		Width:      mainWidth,
		Height:     rowHeight,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 18}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
	}
	if hasLabels(sp) {
		main.Elements = []chart.Renderable{chart.Legend(&main)}
	}

	if !sp.Histogram {
		return main, nil
	}
	hist := histogramChart(sp, cfg, rowHeight)
	return main, hist
}

// tagSeries draws tags under the data series: interval tags as translucent
// full-height bands (later tags over earlier ones), point tags as dashed
// vertical lines, each with a small annotation label. Label rows alternate
// between 90% and 96% of the y span for readability.
func tagSeries(sp *plotdata.Subplot, ys plotdata.Range) []chart.Series {
	if len(sp.Tags) == 0 {
		return nil
	}
	rowY := func(i int) float64 {
		frac := 0.9
		if i%2 == 1 {
			frac = 0.96
		}
		return ys.Min + (ys.Max-ys.Min)*frac
	}
	var out []chart.Series
	if sp.TagKind == plotdata.TagInterval {
		colors := plotdata.TagColors(sp.Tags)
		for i, t := range sp.Tags {
			col := drawing.ColorFromHex(strings.TrimPrefix(colors[t.Name], "#"))
			out = append(out, chart.ContinuousSeries{
				XValues: []float64{t.Start, t.End},
				YValues: []float64{ys.Max, ys.Max},
				Style:   chart.Style{StrokeWidth: chart.Disabled, FillColor: col.WithAlpha(50)},
			})
			out = append(out, chart.AnnotationSeries{
				Annotations: []chart.Value2{{XValue: (t.Start + t.End) / 2, YValue: rowY(i), Label: t.Name}},
				Style:       chart.Style{StrokeColor: col},
			})
		}
		return out
	}
	for i, t := range sp.Tags {
		out = append(out, chart.ContinuousSeries{
			XValues: []float64{t.Timestamp, t.Timestamp},
			YValues: []float64{ys.Min, ys.Max},
			Style:   chart.Style{StrokeColor: tagLineColor, StrokeWidth: 2, StrokeDashArray: []float64{5, 5}},
		})
		out = append(out, chart.AnnotationSeries{
			Annotations: []chart.Value2{{XValue: t.Timestamp, YValue: rowY(i), Label: t.Name}},
			Style:       chart.Style{StrokeColor: tagLineColor},
		})
	}
	return out
}

// histogramChart draws horizontal count bars, one thick stroke per bin,
// against the same y range as the main panel.
func histogramChart(sp *plotdata.Subplot, cfg *Config, rowHeight int) *chart.Chart {
	ys := sp.YSpan()
	bins := plotdata.HistogramWithBounds(sp.YValues(), cfg.Bins, ys.Min, ys.Max)
	if len(bins) == 0 {
		return nil
	}
	maxCount := plotdata.MaxCount(bins)
	barPx := float64(rowHeight-60) / float64(len(bins))
	if barPx < 2 {
		barPx = 2
	}
	col := drawing.ColorFromHex(strings.TrimPrefix(colorAt(sp, 0), "#"))
	var series []chart.Series
	for _, b := range bins {
		mid := (b.Lo + b.Hi) / 2
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{0, float64(b.Count)},
			YValues: []float64{mid, mid},
			Style:   chart.Style{StrokeColor: col.WithAlpha(220), StrokeWidth: barPx * 0.8},
		})
	}
	return &chart.Chart{
		Width:      cfg.Width * 3 / 11,
		Height:     rowHeight,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 8, Right: 12, Bottom: 18}},
		XAxis: chart.XAxis{
			Name:  "Value histogram",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
		// Same y scale as the main panel, including an explicit YRange.
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: ys.Min, Max: ys.Max}},
		Series: series,
	}
}

func colorAt(sp *plotdata.Subplot, i int) string {
	if i < len(sp.Colors) {
		return sp.Colors[i]
	}
	return plotdata.DefaultColor
}

// composeRaster renders every subplot chart to PNG and assembles the full
// document: histogram panels beside their subplot, subplots stacked, figures
// stacked, with the plot title stamped into a band at the top.
func composeRaster(sh *staticHandle, asJPEG bool) ([]byte, error) {
	type cell struct {
		img image.Image
		at  image.Point
	}
	var cells []cell
	width := sh.cfg.Width
	y := 0
	if sh.plot.Title != "" {
		y = titleBandHeight
	}
	for fi := range sh.plot.Figures {
		fig := &sh.plot.Figures[fi]
		rowHeight := sh.cfg.Height / len(fig.Subplots)
		for si := range fig.Subplots {
			main, hist := subplotCharts(&fig.Subplots[si], sh.cfg, rowHeight)
			img, err := renderChartPNG(&main)
			if err != nil {
				return nil, err
			}
			cells = append(cells, cell{img: img, at: image.Pt(0, y)})
			if hist != nil {
				himg, err := renderChartPNG(hist)
				if err != nil {
					return nil, err
				}
				cells = append(cells, cell{img: himg, at: image.Pt(main.Width, y)})
			}
			y += rowHeight
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, y))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for _, c := range cells {
		b := c.img.Bounds()
		draw.Draw(canvas, image.Rect(c.at.X, c.at.Y, c.at.X+b.Dx(), c.at.Y+b.Dy()), c.img, b.Min, draw.Over)
	}
	if sh.plot.Title != "" {
		stampTitle(canvas, sh.plot.Title)
	}

	var buf bytes.Buffer
	if asJPEG {
		if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	} else {
		if err := png.Encode(&buf, canvas); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func renderChartPNG(ch *chart.Chart) (image.Image, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode rendered chart: %w", err)
	}
	return img, nil
}

func stampTitle(img *image.RGBA, title string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 33, G: 33, B: 33, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 18),
	}
	d.DrawString(title)
}

// composeSVG assembles per-chart SVG fragments into one document using
// nested <svg> elements with x/y offsets.
func composeSVG(sh *staticHandle) ([]byte, error) {
	var frags []string
	width := sh.cfg.Width
	y := 0
	if sh.plot.Title != "" {
		y = titleBandHeight
		frags = append(frags, fmt.Sprintf(
			`<text x="8" y="20" font-family="sans-serif" font-size="16" font-weight="bold">%s</text>`,
			html.EscapeString(sh.plot.Title)))
	}
	for fi := range sh.plot.Figures {
		fig := &sh.plot.Figures[fi]
		rowHeight := sh.cfg.Height / len(fig.Subplots)
		for si := range fig.Subplots {
			main, hist := subplotCharts(&fig.Subplots[si], sh.cfg, rowHeight)
			frag, err := renderChartSVG(&main, 0, y)
			if err != nil {
				return nil, err
			}
			frags = append(frags, frag)
			if hist != nil {
				frag, err := renderChartSVG(hist, main.Width, y)
				if err != nil {
					return nil, err
				}
				frags = append(frags, frag)
			}
			y += rowHeight
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, width, y)
	for _, f := range frags {
		sb.WriteString(f)
	}
	sb.WriteString(`</svg>`)
	return []byte(sb.String()), nil
}

func renderChartSVG(ch *chart.Chart, x, y int) (string, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("render chart svg: %w", err)
	}
	frag := buf.String()
	return strings.Replace(frag, "<svg ", fmt.Sprintf(`<svg x="%d" y="%d" `, x, y), 1), nil
}
