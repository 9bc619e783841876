package render

import (
	"fmt"
	"time"

	"github.com/antmicro/servis/src/plotdata"
)

// Options configures one render call. Fields following the broadcast rules of
// plotdata.Request (Subtitles, XTitles, ..., Tags) accept a scalar, a flat
// list or a fully nested list; zero values mean absent. Options is passed by
// value, so concurrent calls with different settings never interfere.
type Options struct {
	Title     string
	Subtitles any
	XTitles   any
	XUnits    any
	YTitles   any
	YUnits    any

	XRange any
	YRange any

	// OutPath is the output path stem; extensions are appended per format.
	// Empty means stream text output to stdout.
	OutPath string
	// Formats lists requested output extensions; default is txt.
	Formats []string
	// Backend selects the rendering backend; default is text.
	Backend Kind

	FigSize  [2]int
	Bins     int
	PlotType string

	TrimXValues  bool
	SkipFirst    bool
	IsXTimestamp bool

	Tags     any
	TagsKind any

	// Palette supplies explicit series colors; Gradient interpolates colors
	// across the hue range instead. The two are mutually exclusive.
	Palette  []string
	Gradient bool

	LegendLabels []string

	RasterTimeout time.Duration
}

// RenderTimeSeriesWithHistogram draws one series with a value-histogram side
// panel, plus optional homogeneous tags. It expands into a one-figure,
// one-subplot request and takes the general multi-plot path.
func RenderTimeSeriesWithHistogram(y, x []float64, o Options) (Result, error) {
	var xv any
	if x != nil {
		xv = x
	}
	return renderPlot(y, xv, o, true)
}

// RenderMultipleTimeSeries draws any of the collapsed or nested y/x shapes
// described on plotdata.Request across one or more figures.
func RenderMultipleTimeSeries(y, x any, o Options) (Result, error) {
	return renderPlot(y, x, o, false)
}

func renderPlot(y, x any, o Options, histogram bool) (Result, error) {
	if o.Gradient && len(o.Palette) > 0 {
		return Result{}, fmt.Errorf("gradient mode and an explicit palette cannot be combined")
	}

	plot, err := plotdata.Normalize(plotdata.Request{
		Y:             y,
		X:             x,
		Title:         o.Title,
		Subtitles:     o.Subtitles,
		XTitles:       o.XTitles,
		XUnits:        o.XUnits,
		YTitles:       o.YTitles,
		YUnits:        o.YUnits,
		XRanges:       o.XRange,
		YRanges:       o.YRange,
		Tags:          o.Tags,
		TagKinds:      o.TagsKind,
		LegendLabels:  o.LegendLabels,
		XTimestamp:    o.IsXTimestamp,
		TrimXValues:   o.TrimXValues,
		SkipFirst:     o.SkipFirst,
		WithHistogram: histogram,
	})
	if err != nil {
		return Result{}, err
	}

	for fi := range plot.Figures {
		for si := range plot.Figures[fi].Subplots {
			sp := &plot.Figures[fi].Subplots[si]
			sp.Colors = plotdata.AssignColors(len(sp.Series), o.Palette, o.Gradient)
		}
	}

	backend, err := New(o.Backend)
	if err != nil {
		return Result{}, err
	}
	cfg := &Config{
		Width:         o.FigSize[0],
		Height:        o.FigSize[1],
		Bins:          o.Bins,
		RasterTimeout: o.RasterTimeout,
		PlotType:      o.PlotType,
	}
	handle, err := backend.RenderPlot(plot, cfg)
	if err != nil {
		return Result{}, err
	}

	formats := o.Formats
	if len(formats) == 0 {
		formats = []string{string(FormatTxt)}
	}
	return Dispatch(backend, handle, o.OutPath, formats), nil
}
