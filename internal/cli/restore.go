package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devhub-labs/devhub/internal/mirror"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <tool>",
	Short: "Restore a tool's previous configuration",
	Long: `Revert a tool to its most recent pre-switch backup. Tools whose mirror
is purely environmental (brew) or toolchain-owned (go) fall back to
their documented default when no backup exists.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	t, err := reg.Resolve(args[0])
	if err != nil {
		return err
	}

	if err := t.Config.RestoreDefault(); err != nil {
		if errors.Is(err, mirror.ErrNoBackup) {
			return fmt.Errorf("nothing to restore for %s: %w", t.ID, mirror.ErrNoBackup)
		}
		return sudoHint(t, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s to its previous configuration\n", t.ID)
	return nil
}
