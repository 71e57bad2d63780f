package main

import (
	"os"

	"github.com/gogpu/flowstroke"
	"github.com/gogpu/flowstroke/gpu"
	"github.com/spf13/cobra"
)

func newShaderCmd() *cobra.Command {
	var output string
	var wgsl bool
	cmd := &cobra.Command{
		Use:   "shader",
		Short: "Emit the ribbon shader as SPIR-V or WGSL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var data []byte
			if wgsl {
				data = []byte(gpu.RibbonShaderSource())
			} else {
				words, err := gpu.CompileRibbonShader()
				if err != nil {
					return err
				}
				data = gpu.SPIRVBytes(words)
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil { //nolint:gosec // shader output is not secret
				return err
			}
			flowstroke.Logger().Info("wrote shader", "path", output, "bytes", len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&wgsl, "wgsl", false, "emit WGSL source instead of SPIR-V")
	return cmd
}
