package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

const helpDescription = `
Deliver analytics events to a Matomo collector in a single bulk request.

Highlights:
  - One POST per batch, JSON bulk format, 5s request timeout.
  - Identifies the client with a platform-derived User-Agent when available.
  - Configure via file ($HOME/.trackship/config.toml), .env, TRACKSHIP_* env, or flags.
`

var exampleUsage = strings.TrimSpace(`
  trackship send --endpoint https://analytics.example.org/matomo.php --site-id 1 --action-name Home --url https://example.org/
  trackship send --config ./trackship.toml --file events.jsonl
  cat events.jsonl | trackship send --file - --wait-user-agent
  trackship useragent
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "trackship",
		Short:         "Deliver analytics events to a Matomo collector",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSendCommand(), newUserAgentCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "trackship:", err)
		os.Exit(1)
	}
}
