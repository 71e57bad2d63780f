package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/flowstroke"
	"github.com/gogpu/flowstroke/meshjson"
	"github.com/gogpu/flowstroke/midifile"
	"github.com/spf13/cobra"
)

// inputFlags select and shape the pipeline input.
type inputFlags struct {
	config    string
	width     float64
	height    float64
	logPitch  bool
	workers   int
	decayTime float64
	channels  []uint
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "JSON config file overlaid on the defaults")
	fl.Float64Var(&f.width, "width", 0, "view width (overrides the request)")
	fl.Float64Var(&f.height, "height", 0, "view height (overrides the request)")
	fl.BoolVar(&f.logPitch, "log-pitch", false, "space pitches by frequency ratio")
	fl.IntVarP(&f.workers, "workers", "j", 1, "flows built in parallel (0 = all CPUs)")
	fl.Float64Var(&f.decayTime, "decay-time", midifile.DefaultOptions().DecayTime, "MIDI: decay time constant in seconds")
	fl.UintSliceVar(&f.channels, "channel", nil, "MIDI: channels to read (default all)")
}

func isMIDI(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi", ".smf":
		return true
	}
	return false
}

// load reads the input file and applies the flags to it.
func (f *inputFlags) load(path string) (*meshjson.Request, error) {
	var req *meshjson.Request
	if isMIDI(path) {
		opts := midifile.DefaultOptions()
		opts.DecayTime = f.decayTime
		for _, c := range f.channels {
			if c > 15 {
				return nil, fmt.Errorf("channel %d out of range 0-15", c)
			}
			opts.Channels = append(opts.Channels, uint8(c))
		}
		points, err := midifile.Read(path, opts)
		if err != nil {
			return nil, err
		}
		req = &meshjson.Request{Points: points}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if req, err = meshjson.DecodeRequest(file); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if f.config != "" {
		raw, err := os.ReadFile(f.config)
		if err != nil {
			return nil, err
		}
		req.Config = raw
	}

	view := meshjson.DefaultView()
	if req.View != nil {
		view = *req.View
	}
	if f.width > 0 {
		view.Width = f.width
	}
	if f.height > 0 {
		view.Height = f.height
	}
	view.LogPitch = view.LogPitch || f.logPitch
	req.View = &view
	return req, nil
}

func (f *inputFlags) build(req *meshjson.Request) ([]flowstroke.FlowGeometry, error) {
	return req.Build(flowstroke.WithWorkers(f.workers))
}
