package main

import (
	"fmt"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/trackship/internal/cliconfig"
	"github.com/bft-labs/trackship/pkg/dispatch"
	"github.com/bft-labs/trackship/pkg/log"
	"github.com/bft-labs/trackship/pkg/useragent"
)

// commonFlags are shared by every subcommand that builds a dispatcher.
type commonFlags struct {
	cfg     cliconfig.Config
	cfgPath string
	envFile string
}

func (f *commonFlags) register(flags *pflag.FlagSet) {
	f.cfg = cliconfig.DefaultConfig()

	flags.StringVar(&f.cfgPath, "config", "", "path to config file (default: $HOME/.trackship/config.toml)")
	flags.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading TRACKSHIP_* variables")
	flags.StringVar(&f.cfg.Endpoint, "endpoint", f.cfg.Endpoint, "collector URL ending in matomo.php or piwik.php")
	flags.StringVar(&f.cfg.SiteID, "site-id", f.cfg.SiteID, "Matomo site ID")
	flags.StringVar(&f.cfg.UserAgent, "user-agent", f.cfg.UserAgent, "fixed User-Agent (skips platform detection)")
	flags.StringVar(&f.cfg.UserAgentFile, "user-agent-file", f.cfg.UserAgentFile, "read the ambient platform string from this file instead of uname")
	flags.BoolVar(&f.cfg.WaitUserAgent, "wait-user-agent", f.cfg.WaitUserAgent, "wait for User-Agent detection before sending")
	flags.DurationVar(&f.cfg.HTTPTimeout, "timeout", f.cfg.HTTPTimeout, "HTTP request timeout")
	flags.DurationVar(&f.cfg.ResolveTimeout, "resolve-timeout", f.cfg.ResolveTimeout, "User-Agent detection timeout")
	flags.StringVar(&f.cfg.LogLevel, "log-level", f.cfg.LogLevel, "log level (debug, info, warn, error)")
}

// load applies file, dotenv and environment configuration below explicit flags.
func (f *commonFlags) load(cmd *cobra.Command) error {
	cfgFile := f.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(fl *pflag.Flag) { changed[fl.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&f.cfg, fc, changed); err != nil {
			return err
		}
	} else if f.cfgPath != "" {
		return fmt.Errorf("config file %s not found", f.cfgPath)
	}

	if err := cliconfig.LoadDotEnv(f.envFile); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return cliconfig.ApplyEnvConfig(&f.cfg, changed)
}

// resolver picks the identification source for cfg.
func resolver(cfg cliconfig.Config) useragent.Resolver {
	if cfg.UserAgentFile != "" {
		return useragent.NewPlatform(useragent.FileProbe{Path: cfg.UserAgentFile})
	}
	return useragent.NewPlatform(useragent.DefaultCommandProbe())
}

func dispatcherOptions(cfg cliconfig.Config, logger log.Logger) []dispatch.Option {
	return []dispatch.Option{
		dispatch.WithLogger(logger),
		dispatch.WithTimeout(cfg.HTTPTimeout),
		dispatch.WithUserAgent(cfg.UserAgent),
		dispatch.WithResolver(resolver(cfg)),
		dispatch.WithResolveTimeout(cfg.ResolveTimeout),
	}
}
