// Package render drives the plotting backends: it turns a normalized
// plotdata.Plot into terminal text, an interactive HTML document or static
// images, and writes the requested output formats.
package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/antmicro/servis/src/plotdata"
)

// Format identifies an output file format.
type Format string

const (
	FormatTxt  Format = "txt"
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatJPG  Format = "jpg"
)

// ParseFormat maps user-facing extension spellings onto formats.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "txt", "text":
		return FormatTxt, nil
	case "html":
		return FormatHTML, nil
	case "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	case "jpg", "jpeg":
		return FormatJPG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Support states how a backend can produce a format.
type Support int

const (
	// SupportNone means the format cannot be produced at all.
	SupportNone Support = iota
	// SupportNative means the backend serializes the format itself.
	SupportNative
	// SupportDelegated means an external rendering engine is required.
	SupportDelegated
)

// CapabilityTable declares, per format, how a backend produces it.
// Formats absent from the table are unsupported.
type CapabilityTable map[Format]Support

func (ct CapabilityTable) Support(f Format) Support { return ct[f] }

// Handle is an opaque per-backend drawing context produced by RenderPlot and
// consumed by Serialize.
type Handle interface{}

// Backend renders normalized plots into one rendering library's context.
// All backends apply the same semantics for tags, histograms, gradients and
// axis captions; only the medium differs.
type Backend interface {
	Name() string
	RenderPlot(p *plotdata.Plot, cfg *Config) (Handle, error)
	Capabilities() CapabilityTable
	Serialize(h Handle, f Format) ([]byte, error)
}

// Kind selects a backend variant.
type Kind string

const (
	KindText        Kind = "text"
	KindInteractive Kind = "interactive"
	KindStatic      Kind = "static-image"
)

// New constructs the backend for a kind. An empty kind means text.
func New(kind Kind) (Backend, error) {
	switch kind {
	case KindText, "":
		return &textBackend{}, nil
	case KindInteractive:
		return &interactiveBackend{}, nil
	case KindStatic:
		return &staticBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want %q, %q or %q)",
			kind, KindText, KindInteractive, KindStatic)
	}
}

// Config carries rendering knobs shared by all backends. Zero values fall
// back to defaults; callers thread a Config explicitly so concurrent render
// calls with different settings cannot interfere.
type Config struct {
	// Width and Height size one figure in pixels.
	Width  int
	Height int
	// Bins sets the histogram bin count.
	Bins int
	// RasterTimeout bounds an external rasterization engine call; the engine
	// can hang, so there is always a deadline.
	RasterTimeout time.Duration
	// PlotType selects "line" or "scatter" drawing of series.
	PlotType string
}

// DefaultConfig mirrors the historical defaults of the render entry points.
func DefaultConfig() *Config {
	return &Config{
		Width:         1500,
		Height:        850,
		Bins:          plotdata.DefaultBins,
		RasterTimeout: 30 * time.Second,
		PlotType:      "line",
	}
}

func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	out := *d
	if c == nil {
		return &out
	}
	if c.Width > 0 {
		out.Width = c.Width
	}
	if c.Height > 0 {
		out.Height = c.Height
	}
	if c.Bins > 0 {
		out.Bins = c.Bins
	}
	if c.RasterTimeout > 0 {
		out.RasterTimeout = c.RasterTimeout
	}
	if c.PlotType != "" {
		out.PlotType = c.PlotType
	}
	return &out
}

// Sentinel errors of the output path.
var (
	// ErrUnsupportedFormat: the backend can produce the format neither
	// natively nor through delegation.
	ErrUnsupportedFormat = errors.New("unsupported output format")
	// ErrEngineUnavailable: the format is supported through delegation but
	// the external rendering engine is not installed.
	ErrEngineUnavailable = errors.New("external rendering engine unavailable")
)
