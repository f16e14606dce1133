package cliconfig

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnvConfig applies configuration from environment variables (TRACKSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint", os.Getenv("TRACKSHIP_ENDPOINT"), &cfg.Endpoint)
	s.setString("site-id", os.Getenv("TRACKSHIP_SITE_ID"), &cfg.SiteID)
	s.setString("user-agent", os.Getenv("TRACKSHIP_USER_AGENT"), &cfg.UserAgent)
	s.setString("user-agent-file", os.Getenv("TRACKSHIP_USER_AGENT_FILE"), &cfg.UserAgentFile)
	s.setString("log-level", os.Getenv("TRACKSHIP_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", os.Getenv("TRACKSHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("resolve-timeout", os.Getenv("TRACKSHIP_RESOLVE_TIMEOUT"), &cfg.ResolveTimeout); err != nil {
		return err
	}

	s.setBoolFromString("wait-user-agent", os.Getenv("TRACKSHIP_WAIT_USER_AGENT"), &cfg.WaitUserAgent)

	return nil
}
