package render

import (
	"errors"
	"testing"
	"time"
)

func TestParseFormatAliases(t *testing.T) {
	cases := map[string]Format{
		"txt":  FormatTxt,
		"text": FormatTxt,
		"html": FormatHTML,
		"png":  FormatPNG,
		"svg":  FormatSVG,
		"jpg":  FormatJPG,
		"jpeg": FormatJPG,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("ParseFormat(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFormatUnknown(t *testing.T) {
	_, err := ParseFormat("bmp")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("ParseFormat(bmp) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestNewBackendKinds(t *testing.T) {
	for _, k := range []Kind{KindText, KindInteractive, KindStatic, ""} {
		b, err := New(k)
		if err != nil {
			t.Fatalf("New(%q): unexpected error: %v", k, err)
		}
		if b == nil {
			t.Fatalf("New(%q) returned nil backend", k)
		}
	}
	if _, err := New("bogus"); err == nil {
		t.Fatalf("New(bogus) succeeded, want error")
	}
}

func TestConfigWithDefaults(t *testing.T) {
	var nilCfg *Config
	got := nilCfg.withDefaults()
	want := DefaultConfig()
	if *got != *want {
		t.Fatalf("nil config defaults = %+v, want %+v", got, want)
	}

	got = (&Config{Width: 800, RasterTimeout: time.Second}).withDefaults()
	if got.Width != 800 || got.RasterTimeout != time.Second {
		t.Fatalf("explicit fields not kept: %+v", got)
	}
	if got.Height != want.Height || got.Bins != want.Bins || got.PlotType != want.PlotType {
		t.Fatalf("unset fields not defaulted: %+v", got)
	}
}

func TestCapabilityTableSupport(t *testing.T) {
	ct := CapabilityTable{FormatPNG: SupportNative, FormatHTML: SupportDelegated}
	if ct.Support(FormatPNG) != SupportNative {
		t.Fatalf("png support = %v, want native", ct.Support(FormatPNG))
	}
	if ct.Support(FormatHTML) != SupportDelegated {
		t.Fatalf("html support = %v, want delegated", ct.Support(FormatHTML))
	}
	if ct.Support(FormatSVG) != SupportNone {
		t.Fatalf("absent format support = %v, want none", ct.Support(FormatSVG))
	}
}
