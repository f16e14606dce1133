package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bft-labs/trackship/internal/cliconfig"
	"github.com/bft-labs/trackship/pkg/dispatch"
	"github.com/bft-labs/trackship/pkg/event"
	"github.com/bft-labs/trackship/pkg/log"
)

type sendFlags struct {
	commonFlags

	file       string
	visitorID  string
	url        string
	actionName string
	category   string
	action     string
	name       string
}

func newSendCommand() *cobra.Command {
	f := &sendFlags{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one batch of events",
		Long: "Send one batch of events. Events are read from a JSON-lines file (--file), " +
			"or a single event is built from flags.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, f)
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "JSON-lines events file, - for stdin")
	cmd.Flags().StringVar(&f.visitorID, "visitor-id", "", "visitor ID (default: random)")
	cmd.Flags().StringVar(&f.url, "url", "", "page URL of the flag-built event")
	cmd.Flags().StringVar(&f.actionName, "action-name", "", "page title of the flag-built event")
	cmd.Flags().StringVar(&f.category, "category", "", "event category of the flag-built event")
	cmd.Flags().StringVar(&f.action, "action", "", "event action of the flag-built event")
	cmd.Flags().StringVar(&f.name, "name", "", "event name of the flag-built event")
	return cmd
}

func runSend(cmd *cobra.Command, f *sendFlags) error {
	if err := f.load(cmd); err != nil {
		return err
	}
	if err := f.cfg.Validate(); err != nil {
		return err
	}

	zl := cliconfig.NewLogger(f.cfg.LogLevel)
	logger := log.NewZerologAdapterWithLogger(zl)

	visitorID := f.visitorID
	if visitorID == "" {
		visitorID = event.NewVisitorID()
	}
	events, err := f.events(visitorID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no events to send")
	}

	d, err := dispatch.New(f.cfg.Endpoint, dispatcherOptions(f.cfg, logger)...)
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.cfg.WaitUserAgent {
		waitUserAgent(ctx, d, f.cfg.ResolveTimeout)
	}

	zl.Info().
		Str("endpoint", d.Endpoint().Redacted()).
		Int("events", len(events)).
		Msg("sending batch")

	if err := d.SendContext(ctx, events); err != nil {
		return err
	}
	zl.Info().Int("events", len(events)).Msg("batch delivered")
	return nil
}

func (f *sendFlags) events(visitorID string) ([]event.Event, error) {
	if f.file != "" {
		events, err := cliconfig.LoadEvents(f.file, f.cfg.SiteID, visitorID)
		if err != nil {
			return nil, fmt.Errorf("load events: %w", err)
		}
		return events, nil
	}

	if f.url == "" && f.actionName == "" && f.category == "" {
		return nil, fmt.Errorf("either --file or one of --url, --action-name, --category is required")
	}
	e := event.New(f.cfg.SiteID, visitorID)
	e.URL = f.url
	e.ActionName = f.actionName
	e.Category = f.category
	e.Action = f.action
	e.Name = f.name
	return []event.Event{e}, nil
}

// waitUserAgent polls until d has an identification string, the timeout
// expires or ctx is done.
func waitUserAgent(ctx context.Context, d *dispatch.Dispatcher, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		if _, ok := d.UserAgent(); ok {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
