package render

import (
	"fmt"
	"os"

	"github.com/antmicro/servis/src/logging"
)

// Result reports the outcome of one dispatch call. Partial success is
// normal: formats the backend cannot produce fail individually while the
// remaining formats are still written.
type Result struct {
	// Written maps each produced format to its output path ("-" for stdout).
	Written map[string]string
	// Failed maps each format that could not be produced to its error.
	Failed map[string]error
}

// Ok reports whether every requested format was produced.
func (r Result) Ok() bool { return len(r.Failed) == 0 }

// Dispatch serializes the drawing handle into every requested extension.
// Native formats serialize directly; delegated formats go through the
// backend's documented delegation path. A format the capability table does
// not list fails with ErrUnsupportedFormat without aborting its siblings.
// The text format streams to stdout when stem is empty.
func Dispatch(b Backend, h Handle, stem string, extensions []string) Result {
	res := Result{Written: map[string]string{}, Failed: map[string]error{}}
	caps := b.Capabilities()
	for _, ext := range extensions {
		f, err := ParseFormat(ext)
		if err != nil {
			res.Failed[ext] = err
			logging.Warnf("skipping %q: %v", ext, err)
			continue
		}
		if caps.Support(f) == SupportNone {
			res.Failed[ext] = fmt.Errorf("%w: %q on %s backend", ErrUnsupportedFormat, f, b.Name())
			logging.Warnf("skipping %q: not supported by %s backend", ext, b.Name())
			continue
		}
		data, err := b.Serialize(h, f)
		if err != nil {
			res.Failed[ext] = err
			logging.Warnf("serializing %q failed: %v", ext, err)
			continue
		}
		if f == FormatTxt && stem == "" {
			if _, err := os.Stdout.Write(data); err != nil {
				res.Failed[ext] = fmt.Errorf("write stdout: %w", err)
				continue
			}
			res.Written[ext] = "-"
			continue
		}
		if stem == "" {
			res.Failed[ext] = fmt.Errorf("no output path for %q", f)
			continue
		}
		path := fmt.Sprintf("%s.%s", stem, f)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			res.Failed[ext] = fmt.Errorf("write %s: %w", path, err)
			logging.Errorf("writing %s failed: %v", path, err)
			continue
		}
		res.Written[ext] = path
		logging.Debugf("wrote %s (%d bytes)", path, len(data))
	}
	return res
}
