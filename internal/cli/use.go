package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/devhub-labs/devhub/internal/mirror"
	"github.com/devhub-labs/devhub/internal/registry"
)

var (
	useFastest bool
	useURL     string
)

var useCmd = &cobra.Command{
	Use:   "use <tool> [mirror]",
	Short: "Switch a tool to a mirror",
	Long: `Switch a tool to a catalog mirror by name, to a custom URL via --url,
or to the fastest reachable candidate via --fastest. The current
artifact is backed up before anything is written.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUse,
}

func init() {
	useCmd.Flags().BoolVar(&useFastest, "fastest", false, "Probe the catalog and apply the fastest mirror")
	useCmd.Flags().StringVar(&useURL, "url", "", "Apply a custom mirror URL not in the catalog")
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	t, err := reg.Resolve(args[0])
	if err != nil {
		return err
	}

	selectors := 0
	if len(args) == 2 {
		selectors++
	}
	if useFastest {
		selectors++
	}
	if useURL != "" {
		selectors++
	}
	if selectors != 1 {
		return errors.New("specify exactly one of: a mirror name, --fastest, or --url")
	}

	if useFastest {
		best, err := t.Config.ApplyFastest(cmd.Context())
		if err != nil {
			return sudoHint(t, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %s (%s, %s) for %s\n",
			best.Name, best.URL, latencyLabel(best), t.ID)
		return nil
	}

	var m mirror.Mirror
	if useURL != "" {
		m = mirror.Mirror{Name: "custom", URL: useURL}
	} else {
		m, err = t.Config.Lookup(args[1])
		if err != nil {
			return err
		}
	}

	if err := t.Config.Apply(m); err != nil {
		return sudoHint(t, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %s (%s) for %s\n", m.Name, m.URL, t.ID)
	return nil
}

// sudoHint annotates permission failures for tools whose artifact lives in
// a root-owned location.
func sudoHint(t *registry.Tool, err error) error {
	if t.SudoHint && errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w (writing %s usually needs elevated privileges; retry with sudo)",
			err, t.Config.Paths()[0])
	}
	return err
}
