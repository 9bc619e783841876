// Command servis reads numeric columns from a file or stdin and renders a
// terminal time-series plot with a value histogram. One column is taken as y
// with auto-indexed x; two columns are taken as (y, x).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antmicro/servis/src/logging"
	"github.com/antmicro/servis/src/render"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		delimiter string
		plotType  string
		title     string
		output    string
		formats   []string
		backend   string
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "servis [input-file]",
		Short: "Render a time-series plot from delimited numeric data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.SetLevel(logLevel)

			in := io.Reader(os.Stdin)
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			y, x, err := readColumns(in, delimiter)
			if err != nil {
				return err
			}

			res, err := render.RenderTimeSeriesWithHistogram(y, x, render.Options{
				Title:    title,
				OutPath:  output,
				Formats:  formats,
				Backend:  render.Kind(backend),
				PlotType: plotType,
			})
			if err != nil {
				return err
			}
			for ext, failure := range res.Failed {
				fmt.Fprintf(os.Stderr, "%s: %v\n", ext, failure)
			}
			if !res.Ok() {
				return fmt.Errorf("some output formats failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", " ", "column delimiter between y and x values")
	cmd.Flags().StringVar(&plotType, "plot-type", "scatter", "plot type: line or scatter")
	cmd.Flags().StringVar(&title, "title", "", "plot title")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path stem (empty prints to stdout)")
	cmd.Flags().StringSliceVar(&formats, "format", []string{"txt"}, "output formats")
	cmd.Flags().StringVar(&backend, "backend", string(render.KindText), "rendering backend")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

// readColumns parses delimiter-separated numeric lines: first column y,
// optional second column x. Blank lines are skipped.
func readColumns(r io.Reader, delimiter string) (y, x []float64, err error) {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		parts := strings.Split(text, delimiter)
		yv, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: bad y value %q: %w", line, parts[0], err)
		}
		y = append(y, yv)
		if len(parts) >= 2 {
			xv, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: bad x value %q: %w", line, parts[1], err)
			}
			x = append(x, xv)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if len(x) > 0 && len(x) != len(y) {
		return nil, nil, fmt.Errorf("x column present on %d of %d lines", len(x), len(y))
	}
	if len(x) == 0 {
		x = nil
	}
	return y, x, nil
}
