package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Endpoint       string `toml:"endpoint"`
	SiteID         string `toml:"site_id"`
	UserAgent      string `toml:"user_agent"`
	UserAgentFile  string `toml:"user_agent_file"`
	WaitUserAgent  *bool  `toml:"wait_user_agent"`
	HTTPTimeout    string `toml:"http_timeout"`
	ResolveTimeout string `toml:"resolve_timeout"`
	LogLevel       string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.trackship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".trackship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint", fc.Endpoint, &cfg.Endpoint)
	s.setString("site-id", fc.SiteID, &cfg.SiteID)
	s.setString("user-agent", fc.UserAgent, &cfg.UserAgent)
	s.setString("user-agent-file", fc.UserAgentFile, &cfg.UserAgentFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("resolve-timeout", fc.ResolveTimeout, &cfg.ResolveTimeout); err != nil {
		return err
	}

	s.setBool("wait-user-agent", fc.WaitUserAgent, &cfg.WaitUserAgent)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
