package render

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/antmicro/servis/src/plotdata"
)

// interactiveBackend renders an interactive HTML document. Static raster
// formats are produced by delegating the rendered document to an external
// browser engine (see rasterize.go).
type interactiveBackend struct{}

type interactiveHandle struct {
	page *components.Page
	cfg  *Config
}

func (*interactiveBackend) Name() string { return string(KindInteractive) }

func (*interactiveBackend) Capabilities() CapabilityTable {
	return CapabilityTable{
		FormatHTML: SupportNative,
		FormatPNG:  SupportDelegated,
		FormatJPG:  SupportDelegated,
	}
}

func (*interactiveBackend) RenderPlot(p *plotdata.Plot, cfg *Config) (Handle, error) {
	cfg = cfg.withDefaults()
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	if p.Title != "" {
		page.PageTitle = p.Title
	}
	for fi := range p.Figures {
		fig := &p.Figures[fi]
		for si := range fig.Subplots {
			sp := &fig.Subplots[si]
			line, err := interactiveSubplot(sp, cfg, len(fig.Subplots))
			if err != nil {
				return nil, err
			}
			page.AddCharts(line)
			if sp.Histogram {
				page.AddCharts(interactiveHistogram(sp, cfg, len(fig.Subplots)))
			}
		}
	}
	return &interactiveHandle{page: page, cfg: cfg}, nil
}

func (b *interactiveBackend) Serialize(h Handle, f Format) ([]byte, error) {
	ih, ok := h.(*interactiveHandle)
	if !ok {
		return nil, fmt.Errorf("interactive backend: bad handle type %T", h)
	}
	var buf bytes.Buffer
	if err := ih.page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	switch f {
	case FormatHTML:
		return buf.Bytes(), nil
	case FormatPNG, FormatJPG:
		return rasterizeHTML(buf.Bytes(), f, ih.cfg)
	default:
		return nil, fmt.Errorf("%w: %q on interactive backend", ErrUnsupportedFormat, f)
	}
}

func interactiveSubplot(sp *plotdata.Subplot, cfg *Config, subplots int) (*charts.Line, error) {
	line := charts.NewLine()
	xs := sp.XSpan()
	xAxis := opts.XAxis{Name: sp.XLabel(), Type: "value", Min: xs.Min, Max: xs.Max}
	if sp.XTimestamp {
		// same HH:MM:SS ticks as the image backend
		xAxis.AxisLabel = &opts.AxisLabel{
			Show: opts.Bool(true),
			Formatter: opts.FuncOpts(
				"function (value) { return new Date(value * 1000).toISOString().slice(11, 19); }"),
		}
	}
	yAxis := opts.YAxis{Name: sp.YLabel(), Type: "value"}
	if sp.YRange != nil {
		yAxis.Min = sp.YRange.Min
		yAxis.Max = sp.YRange.Max
	}
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: sp.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(hasLabels(sp))}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%dpx", cfg.Width*8/11),
			Height: fmt.Sprintf("%dpx", cfg.Height/subplots),
		}),
	)

	for i := range sp.Series {
		s := &sp.Series[i]
		data := make([]opts.LineData, s.Len())
		for j := range s.Y {
			data[j] = opts.LineData{Value: []interface{}{s.X[j], s.Y[j]}}
		}
		color := plotdata.DefaultColor
		if i < len(sp.Colors) {
			color = sp.Colors[i]
		}
		name := s.Label
		if name == "" {
			name = fmt.Sprintf("series %d", i)
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(true),
				Smooth:     opts.Bool(false),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		}
		if i == 0 {
			seriesOpts = append(seriesOpts, tagMarkOpts(sp)...)
		}
		line.AddSeries(name, data, seriesOpts...)
	}
	return line, nil
}

// tagMarkOpts expresses tags as ECharts marks on the subplot's first series:
// point tags become vertical mark lines, interval tags become shaded mark
// areas colored per category.
func tagMarkOpts(sp *plotdata.Subplot) []charts.SeriesOpts {
	if len(sp.Tags) == 0 {
		return nil
	}
	if sp.TagKind == plotdata.TagPoint {
		items := make([]opts.MarkLineNameXAxisItem, len(sp.Tags))
		for i, t := range sp.Tags {
			items[i] = opts.MarkLineNameXAxisItem{Name: t.Name, XAxis: t.Timestamp}
		}
		return []charts.SeriesOpts{charts.WithMarkLineNameXAxisItemOpts(items...)}
	}
	ys := sp.YSpan()
	colors := plotdata.TagColors(sp.Tags)
	items := make([]opts.MarkAreaNameCoordItem, len(sp.Tags))
	for i, t := range sp.Tags {
		items[i] = opts.MarkAreaNameCoordItem{
			Name:        t.Name,
			Coordinate0: []interface{}{t.Start, ys.Min},
			Coordinate1: []interface{}{t.End, ys.Max},
			ItemStyle:   &opts.ItemStyle{Color: rgba(colors[t.Name], 0.2)},
		}
	}
	return []charts.SeriesOpts{charts.WithMarkAreaNameCoordItemOpts(items...)}
}

// interactiveHistogram renders the value-histogram side panel as a horizontal
// bar chart sharing the subplot's value scale.
func interactiveHistogram(sp *plotdata.Subplot, cfg *Config, subplots int) *charts.Bar {
	// Bin over the main panel's y span so the two panels share one scale.
	ys := sp.YSpan()
	bins := plotdata.HistogramWithBounds(sp.YValues(), cfg.Bins, ys.Min, ys.Max)
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Value histogram"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%dpx", cfg.Width*3/11),
			Height: fmt.Sprintf("%dpx", cfg.Height/subplots),
		}),
	)
	labels := make([]string, len(bins))
	data := make([]opts.BarData, len(bins))
	for i, b := range bins {
		labels[i] = fmt.Sprintf("%.3g..%.3g", b.Lo, b.Hi)
		data[i] = opts.BarData{Value: b.Count}
	}
	bar.SetXAxis(labels)
	color := plotdata.DefaultColor
	if len(sp.Colors) > 0 {
		color = sp.Colors[0]
	}
	bar.AddSeries("count", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))
	bar.XYReversal()
	return bar
}

func hasLabels(sp *plotdata.Subplot) bool {
	for i := range sp.Series {
		if sp.Series[i].Label != "" {
			return true
		}
	}
	return false
}

func rgba(hex string, alpha float64) string {
	r, g, b, err := plotdata.ParseHexColor(hex)
	if err != nil {
		return hex
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", r, g, b, alpha)
}
