package cmd

import (
	"github.com/spf13/cobra"

	"github.com/a38062an/Atomic-Resource-Broker/internal/application/coordinator"
	"github.com/a38062an/Atomic-Resource-Broker/internal/config"
	"github.com/a38062an/Atomic-Resource-Broker/internal/infrastructure/apiclient"
	"github.com/a38062an/Atomic-Resource-Broker/internal/interfaces/web"
	"github.com/a38062an/Atomic-Resource-Broker/internal/pacer"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web control panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.ValidateWeb(); err != nil {
				return err
			}
			log, err := buildLogger(cfg.DevMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			hotel := apiclient.New("hotel", cfg.Hotel.URL, cfg.Hotel.Key, cfg.Retries, cfg.Delay, log)
			band := apiclient.New("band", cfg.Band.URL, cfg.Band.Key, cfg.Retries, cfg.Delay, log)
			co := coordinator.New(hotel, band, pacer.New(cfg.RequestInterval), log)

			sessions := web.NewSessionManager(cfg.SessionHashKey, cfg.SessionBlockKey)
			tmpl, err := web.ParseTemplates()
			if err != nil {
				return err
			}
			srv := web.New(cfg.HTTPAddr, sessions, cfg.AdminPasswordHash, co, tmpl, log)
			return srv.ListenAndServe()
		},
	}
}
