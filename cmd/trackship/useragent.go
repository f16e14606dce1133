package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bft-labs/trackship/internal/cliconfig"
	"github.com/bft-labs/trackship/pkg/useragent"
)

func newUserAgentCommand() *cobra.Command {
	f := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "useragent",
		Short: "Print the User-Agent that send would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.load(cmd); err != nil {
				return err
			}
			if f.cfg.UserAgent != "" {
				fmt.Fprintln(cmd.OutOrStdout(), f.cfg.UserAgent)
				return nil
			}

			zl := cliconfig.NewLogger(f.cfg.LogLevel)
			ctx, cancel := context.WithTimeout(cmd.Context(), f.cfg.ResolveTimeout)
			defer cancel()

			res := <-resolver(f.cfg).Resolve(ctx)
			if res.Err != nil {
				zl.Debug().Err(res.Err).Msg("resolution failed")
				return fmt.Errorf("no user agent available: %w", useragent.ErrNoUserAgent)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.UserAgent)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}
