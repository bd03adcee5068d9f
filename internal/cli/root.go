package cli

import (
	"github.com/spf13/cobra"

	"github.com/devhub-labs/devhub/internal/backup"
	"github.com/devhub-labs/devhub/internal/branding"
	"github.com/devhub-labs/devhub/internal/catalog"
	"github.com/devhub-labs/devhub/internal/config"
	"github.com/devhub-labs/devhub/internal/registry"
	"github.com/devhub-labs/devhub/internal/shell"
	"github.com/devhub-labs/devhub/internal/speedtest"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` detects the package managers and build tools installed on this
machine and manages their registry mirrors: inspect the current source,
benchmark the candidates, switch with an automatic backup, and restore
the previous configuration at any time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// newRegistry assembles the tool set from the effective catalog and the
// configured timeouts.
func newRegistry() (*registry.Registry, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	runner := &shell.ExecRunner{Timeout: config.ShellTimeout()}
	return registry.New(cat, runner, &backup.Manager{}, speedtest.New(config.SpeedTestTimeout())), nil
}
