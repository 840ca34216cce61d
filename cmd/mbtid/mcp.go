package main

import (
	"github.com/spf13/cobra"

	"mbtid/internal/mcp"
)

func newMCPCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the predictor as MCP tools on stdio",
		Long:  "Serve Model Context Protocol on stdin/stdout. Logs go to stderr so they never mix with protocol messages.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg)
			svc, err := newService(cfg, log, nil)
			if err != nil {
				return err
			}
			defer svc.Close()
			if !cfg.LazyLoad {
				if err := svc.Warmup(cmd.Context()); err != nil {
					return err
				}
			}
			log.Info().Str("model_dir", cfg.ModelDir).Msg("mcp server on stdio")
			return mcp.NewServer(svc, version, log).ServeStdio()
		},
	}
}
