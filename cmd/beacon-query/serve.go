// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/beacon-query/internal/logger"
	"github.com/pdiddy/beacon-query/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve query building and range checks over HTTP",
	Long: `Serve starts the validation service used for live form feedback:

  GET /api/query?...      query string of the form, or the build error
  GET /api/validate?...   whether the form builds
  GET /api/range?value=   advisory range check
  GET /healthz            liveness
  GET /metrics            Prometheus metrics

Form fields are passed as query parameters with their form names
(start, end, bioontology, materialtype, freeFilters, geoCity as
longitude,latitude, geodistanceKm); all other parameters pass through.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		log := logger.Build(cfg.Log, nil)
		srv := server.New(cfg.Server, log, server.NewMetrics(version))
		return srv.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
