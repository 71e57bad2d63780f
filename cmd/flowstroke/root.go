package main

import (
	"io"
	"log/slog"

	"github.com/gogpu/flowstroke"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose bool
	lang    string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:   "flowstroke",
		Short: "Turn note events into brush-stroke geometry",
		Long: `flowstroke groups detected note events into melodic flows and builds
smooth, variable-width ribbon meshes for them. Input is a JSON request
({"points": [...], "config": {...}, "view": {...}}) or a MIDI file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), g.verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log pipeline diagnostics")
	root.PersistentFlags().StringVar(&g.lang, "lang", "en", "language for number formatting in summaries")

	root.AddCommand(
		newRenderCmd(&g),
		newMeshCmd(&g),
		newServeCmd(),
		newShaderCmd(),
	)
	return root
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	flowstroke.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
