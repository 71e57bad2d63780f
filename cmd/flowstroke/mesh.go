package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gogpu/flowstroke"
	"github.com/gogpu/flowstroke/gpu"
	"github.com/gogpu/flowstroke/meshjson"
	"github.com/gogpu/gputypes"
	"github.com/spf13/cobra"
)

type meshFlags struct {
	input  inputFlags
	output string
	format string
	indent bool
}

func newMeshCmd(g *globalFlags) *cobra.Command {
	var f meshFlags
	cmd := &cobra.Command{
		Use:   "mesh <input>",
		Short: "Write flow meshes as JSON or a packed GPU bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := ".mesh.json"
			switch f.format {
			case "json":
			case "bin":
				ext = ".mesh.bin"
			default:
				return fmt.Errorf("unknown format %q (want json or bin)", f.format)
			}

			req, err := f.input.load(args[0])
			if err != nil {
				return err
			}
			geo, err := f.input.build(req)
			if err != nil {
				return err
			}
			write := func(w io.Writer) error {
				if f.format == "bin" {
					bundle := gpu.NewBundle(geo, gputypes.TextureFormatBGRA8Unorm, int(req.View.Width), int(req.View.Height))
					_, err := bundle.WriteTo(w)
					return err
				}
				return meshjson.Write(w, meshjson.Encode(geo), f.indent)
			}

			if f.output == "-" {
				return write(cmd.OutOrStdout())
			}
			dest := outputPath(args[0], f.output, ext)
			file, err := os.Create(dest)
			if err != nil {
				return err
			}
			if err := write(file); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			flowstroke.Logger().Debug("wrote mesh", "path", dest, "format", f.format)
			summarize(geo).write(cmd.OutOrStdout(), g.lang, dest)
			return nil
		},
	}
	f.input.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", `output file, "-" for stdout (default <input>.mesh.json or .mesh.bin)`)
	cmd.Flags().StringVar(&f.format, "format", "json", "output format: json, or bin for a packed GPU bundle")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "indent the JSON output")
	return cmd
}
