// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/beacon-query/internal/query"
	"github.com/pdiddy/beacon-query/pkg/types"
)

func formCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addFormFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestFormFromFlags(t *testing.T) {
	cmd := formCmd(t,
		"--param", "datasetIds=progenetix",
		"--param", "assemblyId=GRCh38",
		"--start", "5",
		"--end", "10",
		"--bioontology", "NCIT:C3058",
		"--geo-city", "8.55,47.37",
	)
	form, err := formFromFlags(cmd)
	require.NoError(t, err)

	qs, err := query.BuildQueryParameters(form)
	require.NoError(t, err)
	assert.Equal(t,
		"datasetIds=progenetix&assemblyId=GRCh38&geolongitude=8.55&geolatitude=47.37&geodistance=100000&start=4&end=9&filters=NCIT%3AC3058",
		qs)
}

func TestFormFromFlags_BadParam(t *testing.T) {
	_, err := formFromFlags(formCmd(t, "--param", "novalue"))
	assert.True(t, errors.Is(err, types.ErrInvalidForm))

	_, err = formFromFlags(formCmd(t, "--geo-city", "zurich"))
	assert.True(t, errors.Is(err, types.ErrInvalidForm))
}

func TestFormFromFlags_FileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start: \"5\"\nend: \"10\"\ndatasetIds: progenetix\n"), 0o644))

	form, err := formFromFlags(formCmd(t, "--form", path, "--end", "20", "--param", "limit=5"))
	require.NoError(t, err)
	assert.Equal(t, "5", form.Start)
	assert.Equal(t, "20", form.End)
	assert.Equal(t, []types.Param{
		{Key: "datasetIds", Value: "progenetix"},
		{Key: "limit", Value: "5"},
	}, form.Params)
}

func TestLoadConfig(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beacon-query.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
client:
  api_path: http://localhost:8000/
  timeout: 5s
archive:
  dir: /tmp/archive
log:
  level: debug
`), 0o644))

	t.Setenv("BEACON_QUERY_LOG_LEVEL", "warn")

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)
	v.SetEnvPrefix("BEACON_QUERY")
	v.SetEnvKeyReplacer(newEnvReplacer())
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/", cfg.Client.APIPath)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "beacon-query/0.1", cfg.Client.UserAgent)
	assert.Equal(t, "/tmp/archive", cfg.Archive.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Gliobl...", truncate("Glioblastoma", 9))
}
