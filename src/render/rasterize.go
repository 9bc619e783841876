package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/antmicro/servis/src/logging"
)

// browserCandidates are probed in order to locate the delegation engine.
// CHROME_PATH overrides the probe.
var browserCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

// findBrowser locates a headless-capable browser binary. A missing engine is
// reported as ErrEngineUnavailable so callers can tell it apart from a format
// the backend never supports.
func findBrowser() (string, error) {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p, nil
	}
	for _, name := range browserCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: no headless browser found (set CHROME_PATH)", ErrEngineUnavailable)
}

// rasterizeHTML renders an HTML document to PNG or JPG through a headless
// browser. This is the one long-latency call in the system, so it always runs
// under a deadline.
func rasterizeHTML(html []byte, f Format, cfg *Config) ([]byte, error) {
	browser, err := findBrowser()
	if err != nil {
		return nil, err
	}
	defer logging.TimeTrack(time.Now(), "rasterize "+string(f))

	dir, err := os.MkdirTemp("", "servis-raster-*")
	if err != nil {
		return nil, fmt.Errorf("raster temp dir: %w", err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "plot.html")
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return nil, fmt.Errorf("write raster input: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RasterTimeout)
	defer cancel()
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(browser),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	quality := 100 // 100 produces PNG
	if f == FormatJPG {
		quality = 90
	}
	var shot []byte
	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(cfg.Width), int64(cfg.Height)),
		chromedp.Navigate("file://"+path),
		// give the chart script a moment to lay out
		chromedp.Sleep(500*time.Millisecond),
		chromedp.FullScreenshot(&shot, quality),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("rasterization timed out after %s: %w", cfg.RasterTimeout, err)
		}
		return nil, fmt.Errorf("rasterize %s: %w", f, err)
	}
	return shot, nil
}
