package cli

import (
	"github.com/spf13/cobra"

	"github.com/tuannm99/elemsql/server/sqlwire"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sessions over TCP; every connection gets its own database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			return sqlwire.Run(sqlwire.ServerConfig{
				Addr:           cfg.Server.Addr,
				DatabaseName:   cfg.Database.Name,
				StatementCache: cfg.Server.StatementCache,
				Debug:          cfg.Server.Debug,
			})
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from config)")
	cmd.Flags().Bool("debug", false, "log every request")
	return cmd
}
