package main

import (
	"github.com/gogpu/flowstroke/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	opts := server.DefaultOptions()
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return server.New(opts).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringSliceVar(&opts.AllowedOrigins, "origin", nil, "CORS allowed origins (default any)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", opts.Workers, "flows built in parallel per request (0 = all CPUs)")
	cmd.Flags().Int64Var(&opts.MaxBodyBytes, "max-body", opts.MaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().IntVar(&opts.CacheEntries, "cache", opts.CacheEntries, "cached /v1/flows responses (0 disables)")
	return cmd
}
