package flowstroke

// BuildOption configures a Build call.
//
// Example:
//
//	// Sequential build with defaults
//	geo := flowstroke.Build(points, proj, flowstroke.DefaultConfig())
//
//	// Spread flows over four goroutines
//	geo := flowstroke.Build(points, proj, cfg, flowstroke.WithWorkers(4))
type BuildOption func(*buildOptions)

// buildOptions holds optional configuration for Build.
type buildOptions struct {
	workers int
	noTails bool
}

// defaultBuildOptions returns the default build options.
func defaultBuildOptions() buildOptions {
	return buildOptions{
		workers: 1,
	}
}

// WithWorkers builds independent flows on n goroutines. Zero or negative
// uses GOMAXPROCS. The result is identical to a sequential build.
func WithWorkers(n int) BuildOption {
	return func(o *buildOptions) {
		o.workers = n
	}
}

// WithoutTails skips tail generation for every flow.
func WithoutTails() BuildOption {
	return func(o *buildOptions) {
		o.noTails = true
	}
}
