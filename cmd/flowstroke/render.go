package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/gogpu/flowstroke"
	"github.com/gogpu/flowstroke/preview"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	input    inputFlags
	output   string
	label    bool
	watch    bool
	interval time.Duration
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Rasterize flows to a PNG preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			render := func() error {
				return runRender(cmd, g, &f, args[0])
			}
			if err := render(); err != nil {
				return err
			}
			if !f.watch {
				return nil
			}
			return watch(cmd.Context(), args[0], f.interval, func() {
				if err := render(); err != nil {
					flowstroke.Logger().Error("render failed", "err", err)
				}
			})
		},
	}
	f.input.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output PNG (default <input>.png)")
	cmd.Flags().BoolVar(&f.label, "label", false, "draw a summary label in the corner")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "re-render whenever the input changes")
	cmd.Flags().DurationVar(&f.interval, "interval", 250*time.Millisecond, "watch polling interval")
	return cmd
}

func outputPath(input, output, ext string) string {
	if output != "" {
		return output
	}
	if i := strings.LastIndexByte(input, '.'); i > strings.LastIndexAny(input, `/\`) {
		input = input[:i]
	}
	return input + ext
}

func runRender(cmd *cobra.Command, g *globalFlags, f *renderFlags, input string) error {
	req, err := f.input.load(input)
	if err != nil {
		return err
	}
	geo, err := f.input.build(req)
	if err != nil {
		return err
	}

	s := summarize(geo)
	opts := preview.DefaultOptions(int(req.View.Width), int(req.View.Height))
	if f.label {
		opts.Label = printer(g.lang).Sprintf("%d flows, %d points", s.flows, s.points)
	}
	img := preview.Render(geo, opts)

	dest := outputPath(input, f.output, ".png")
	if err := preview.SavePNG(dest, img); err != nil {
		return err
	}
	s.write(cmd.OutOrStdout(), g.lang, dest)
	return nil
}

// watch calls fn after path changes until ctx is done. Bursts of changes
// within a few polling intervals trigger a single call.
func watch(ctx context.Context, path string, interval time.Duration, fn func()) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	last, err := modTime(path)
	if err != nil {
		return err
	}
	debounced := debounce.New(2 * interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	flowstroke.Logger().Info("watching", "path", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			mt, err := modTime(path)
			if err != nil {
				// The file may be mid-replace; try again next tick.
				continue
			}
			if !mt.Equal(last) {
				last = mt
				debounced(fn)
			}
		}
	}
}

func modTime(path string) (time.Time, error) {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("watch: %w", err)
	}
	return st.ModTime(), nil
}
