package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/antmicro/servis/src/plotdata"
)

// fakeBackend serializes fixed bytes for the formats its table lists and
// fails deterministically for a chosen format.
type fakeBackend struct {
	caps    CapabilityTable
	failFmt Format
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) RenderPlot(*plotdata.Plot, *Config) (Handle, error) { return "handle", nil }

func (f *fakeBackend) Capabilities() CapabilityTable { return f.caps }

func (f *fakeBackend) Serialize(_ Handle, fm Format) ([]byte, error) {
	if fm == f.failFmt {
		return nil, fmt.Errorf("serialize %q blew up", fm)
	}
	return []byte("payload-" + string(fm)), nil
}

func TestDispatchPartialSuccess(t *testing.T) {
	b := &fakeBackend{caps: CapabilityTable{FormatPNG: SupportNative}}
	stem := filepath.Join(t.TempDir(), "out")

	res := Dispatch(b, "handle", stem, []string{"png", "bmp", "svg"})

	if res.Ok() {
		t.Fatalf("Ok() = true with failed formats: %+v", res)
	}
	path, ok := res.Written["png"]
	if !ok {
		t.Fatalf("png missing from Written: %+v", res)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(data) != "payload-png" {
		t.Fatalf("written payload = %q", data)
	}

	if err := res.Failed["bmp"]; !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("bmp error = %v, want ErrUnsupportedFormat", err)
	}
	if err := res.Failed["svg"]; !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("svg error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDispatchSerializeErrorDoesNotAbortSiblings(t *testing.T) {
	b := &fakeBackend{
		caps:    CapabilityTable{FormatPNG: SupportNative, FormatSVG: SupportNative},
		failFmt: FormatPNG,
	}
	stem := filepath.Join(t.TempDir(), "out")

	res := Dispatch(b, "handle", stem, []string{"png", "svg"})

	if _, ok := res.Failed["png"]; !ok {
		t.Fatalf("png should have failed: %+v", res)
	}
	if _, ok := res.Written["svg"]; !ok {
		t.Fatalf("svg should still be written: %+v", res)
	}
}

func TestDispatchNonTextNeedsPath(t *testing.T) {
	b := &fakeBackend{caps: CapabilityTable{FormatPNG: SupportNative}}
	res := Dispatch(b, "handle", "", []string{"png"})
	if res.Ok() {
		t.Fatalf("png with empty stem should fail: %+v", res)
	}
}

func TestDispatchWritesExtensionPerFormat(t *testing.T) {
	b := &fakeBackend{caps: CapabilityTable{FormatPNG: SupportNative, FormatJPG: SupportNative}}
	stem := filepath.Join(t.TempDir(), "plot")
	res := Dispatch(b, "handle", stem, []string{"png", "jpeg"})
	if !res.Ok() {
		t.Fatalf("dispatch failed: %+v", res.Failed)
	}
	if got := res.Written["png"]; got != stem+".png" {
		t.Fatalf("png path = %q", got)
	}
	// The jpeg alias normalizes to the jpg extension on disk.
	if got := res.Written["jpeg"]; got != stem+".jpg" {
		t.Fatalf("jpeg path = %q", got)
	}
}
