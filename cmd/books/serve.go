package main

import (
	"path/filepath"

	"github.com/Veraticus/the-books-must-balance/internal/api"
	"github.com/Veraticus/the-books-must-balance/internal/certs"
	"github.com/Veraticus/the-books-must-balance/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	var useTLS bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP",
		Long: `Serve the ledger as a JSON API. Every request under /api except
/api/health must carry the owner identity in the configured header
(X-Owner-ID by default), normally set by an authenticating proxy.

With --tls the API is served over HTTPS using a self-signed localhost
certificate kept in the config directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			apiCfg := api.DefaultConfig()
			apiCfg.OwnerHeader = a.cfg.ServerOwnerHeader
			server := api.NewServer(a.ledger, apiCfg)

			if !useTLS {
				return server.Listen(ctx, a.cfg.ServerAddr)
			}

			manager := certs.NewManager(filepath.Join(config.DefaultConfigDir(), "certs"))
			if _, err := manager.Ensure(); err != nil {
				return err
			}
			certFile, keyFile := manager.Files()
			return server.ListenTLS(ctx, a.cfg.ServerAddr, certFile, keyFile)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().String("owner-header", "", "request header carrying the owner identity")
	cmd.Flags().BoolVar(&useTLS, "tls", false, "serve HTTPS with a self-signed localhost certificate")
	_ = viper.BindPFlag(config.KeyServerAddr, cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag(config.KeyServerOwnerHeader, cmd.Flags().Lookup("owner-header"))

	return cmd
}
