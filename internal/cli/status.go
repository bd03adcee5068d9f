package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status [tool]",
	Short: "Show which mirror a tool currently uses",
	Long: `Show the currently configured mirror for one tool, or for every tool
when no argument is given. A tool with no mirror directive is on its
official default.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

// statusEntry is one tool's mirror state for display.
type statusEntry struct {
	Tool      string `json:"tool"`
	Mirror    string `json:"mirror,omitempty"`
	MirrorURL string `json:"mirror_url,omitempty"`
	Artifact  string `json:"artifact"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	var entries []statusEntry
	if len(args) == 1 {
		t, err := reg.Resolve(args[0])
		if err != nil {
			return err
		}
		status, err := t.Config.Status()
		if err != nil {
			return err
		}
		entries = append(entries, statusEntry{
			Tool:      t.ID,
			Mirror:    mirrorLabel(status),
			MirrorURL: status.CurrentURL,
			Artifact:  t.Config.Paths()[0],
		})
	} else {
		for _, t := range reg.List() {
			status, err := t.Config.Status()
			if err != nil {
				return fmt.Errorf("%s: %w", t.ID, err)
			}
			entries = append(entries, statusEntry{
				Tool:      t.ID,
				Mirror:    mirrorLabel(status),
				MirrorURL: status.CurrentURL,
				Artifact:  t.Config.Paths()[0],
			})
		}
	}

	if statusJSON {
		return printJSON(cmd, entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TOOL\tMIRROR\tURL\tARTIFACT")
	for _, e := range entries {
		label := e.Mirror
		if label == "" {
			label = "official default"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Tool, label, orDash(e.MirrorURL), e.Artifact)
	}
	return w.Flush()
}
