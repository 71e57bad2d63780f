package flowstroke

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("flowstroke: invalid config")

// Config bundles the parameters of every pipeline stage.
type Config struct {
	Cluster ClusterConfig `json:"cluster"`
	Smooth  SmoothConfig  `json:"smooth"`
	Ribbon  RibbonConfig  `json:"ribbon"`
	Tail    TailConfig    `json:"tail"`
}

// DefaultConfig returns the default configuration for all stages.
func DefaultConfig() Config {
	return Config{
		Cluster: DefaultClusterConfig(),
		Smooth:  DefaultSmoothConfig(),
		Ribbon:  DefaultRibbonConfig(),
		Tail:    DefaultTailConfig(),
	}
}

// Validate checks the configuration for values the pipeline cannot use
// meaningfully. The pipeline itself never fails on a bad config; callers
// that accept configuration from users should call Validate first.
func (c Config) Validate() error {
	checks := []struct {
		ok   bool
		name string
		val  any
	}{
		{c.Cluster.GapAfterEndingSec >= 0, "cluster.gapAfterEndingSec", c.Cluster.GapAfterEndingSec},
		{c.Cluster.LongRestSec >= 0, "cluster.longRestSec", c.Cluster.LongRestSec},
		{c.Cluster.MaxBreathDurationSec > 0, "cluster.maxBreathDurationSec", c.Cluster.MaxBreathDurationSec},
		{c.Smooth.SamplesPerSegment >= 1, "smooth.samplesPerSegment", c.Smooth.SamplesPerSegment},
		{c.Smooth.Tension >= 0, "smooth.tension", c.Smooth.Tension},
		{c.Ribbon.WidthMin >= 0, "ribbon.wMin", c.Ribbon.WidthMin},
		{c.Ribbon.WidthMax >= c.Ribbon.WidthMin, "ribbon.wMax", c.Ribbon.WidthMax},
		{c.Ribbon.EnergyGamma > 0, "ribbon.energyGamma", c.Ribbon.EnergyGamma},
		{c.Ribbon.MaxWidthToLocalScaleRatio > 0, "ribbon.maxWidthToLocalScaleRatio", c.Ribbon.MaxWidthToLocalScaleRatio},
		{c.Tail.DecayThreshold >= 0 && c.Tail.DecayThreshold < 1, "tail.tailDecayThreshold", c.Tail.DecayThreshold},
		{c.Tail.BaseSegmentLength >= 0, "tail.tailBaseSegmentLength", c.Tail.BaseSegmentLength},
		{c.Tail.MaxSegments >= 0, "tail.tailMaxSegments", c.Tail.MaxSegments},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, chk.name, chk.val)
		}
	}
	return nil
}

// DecodeConfig reads a JSON configuration from r. Fields missing from the
// document keep their default values.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("flowstroke: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a JSON configuration file. See DecodeConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return DecodeConfig(f)
}
