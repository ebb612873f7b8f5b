// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultAPIPath is the public Progenetix deployment used when no base
// path is configured.
const DefaultAPIPath = "https://progenetix.org/"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "beacon-query/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ClientConfig holds settings for the beacon API client. It replaces the
// process-wide API path and proxy flag with a value passed at construction.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIPath is the base path all endpoint paths are appended to. It must
	// end with a slash (default "https://progenetix.org/").
	APIPath string `json:"api_path" yaml:"api_path" mapstructure:"api_path"`

	// UseProxy rewrites absolute upstream URLs onto APIPath (see
	// beacon.ReplaceWithProxy).
	UseProxy bool `json:"use_proxy" yaml:"use_proxy" mapstructure:"use_proxy"`
}

// ArchiveConfig holds settings for the local biosample archive.
type ArchiveConfig struct {
	// Dir is the directory holding the archive database (default "archive").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig holds settings for the query validation service.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ReadTimeout bounds reading a whole request.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
}

// LogConfig selects the log level and output style.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Console switches from JSON lines to human-readable output.
	Console bool `json:"console" yaml:"console" mapstructure:"console"`
}

// Config groups all settings. Values are resolved with the precedence
// flag > environment > config file > default.
type Config struct {
	Client  ClientConfig  `json:"client" yaml:"client" mapstructure:"client"`
	Archive ArchiveConfig `json:"archive" yaml:"archive" mapstructure:"archive"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Client: ClientConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "beacon-query/0.1",
			},
			APIPath: DefaultAPIPath,
		},
		Archive: ArchiveConfig{
			Dir:        "archive",
			MaxResults: 20,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			ReadTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
