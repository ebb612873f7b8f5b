// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the beacon-query CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/beacon-query/internal/beacon"
	"github.com/pdiddy/beacon-query/internal/httputil"
	"github.com/pdiddy/beacon-query/internal/logger"
	"github.com/pdiddy/beacon-query/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the beacon-query CLI.
var rootCmd = &cobra.Command{
	Use:   "beacon-query",
	Short: "Build and run genomic biosample queries against beacon services",
	Long: `beacon-query turns search form values into the canonical query string of the
bycon beacon services, validates position ranges, and fetches biosamples,
publications, ontology mappings and CNV plots.

Configuration is read from ./beacon-query.yaml or
~/.config/beacon-query/config.yaml, from BEACON_QUERY_* environment
variables, and from flags, with flags taking precedence.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./beacon-query.yaml or ~/.config/beacon-query/config.yaml)")
	pf.String("api-path", "", "base path of the beacon services")
	pf.Bool("use-proxy", false, "rewrite upstream URLs onto the API path")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("log-console", false, "human-readable log output")

	viper.BindPFlag("client.api_path", pf.Lookup("api-path"))
	viper.BindPFlag("client.use_proxy", pf.Lookup("use-proxy"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.console", pf.Lookup("log-console"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("beacon-query")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "beacon-query"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("BEACON_QUERY")
	viper.SetEnvKeyReplacer(newEnvReplacer())
	viper.AutomaticEnv()
	viper.BindEnv("client.api_path", "BEACON_QUERY_API_PATH", "BEACON_QUERY_CLIENT_API_PATH")
	viper.BindEnv("client.use_proxy", "BEACON_QUERY_USE_PROXY", "BEACON_QUERY_CLIENT_USE_PROXY")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newEnvReplacer maps nested keys such as log.level to LOG_LEVEL.
func newEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// setDefaults registers every config key so that environment variables
// reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("client.timeout", d.Client.Timeout)
	v.SetDefault("client.user_agent", d.Client.UserAgent)
	v.SetDefault("client.api_path", d.Client.APIPath)
	v.SetDefault("client.use_proxy", d.Client.UseProxy)
	v.SetDefault("archive.dir", d.Archive.Dir)
	v.SetDefault("archive.max_results", d.Archive.MaxResults)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.console", d.Log.Console)
}

// loadConfig resolves the configuration from viper.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}
	return cfg, nil
}

// env bundles what commands need to talk to the services.
type env struct {
	cfg    types.Config
	log    zerolog.Logger
	client *beacon.Client
}

func newEnv() (*env, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	log := logger.Build(cfg.Log, os.Stderr)
	fetch := httputil.NewFetcher(&http.Client{Timeout: cfg.Client.Timeout}, cfg.Client.UserAgent, log)
	return &env{cfg: cfg, log: log, client: beacon.New(cfg.Client, fetch)}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
