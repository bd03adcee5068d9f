package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/devhub-labs/devhub/internal/mirror"
)

var mirrorsJSON bool

var mirrorsCmd = &cobra.Command{
	Use:   "mirrors <tool>",
	Short: "List the catalog mirrors for a tool",
	Args:  cobra.ExactArgs(1),
	RunE:  runMirrors,
}

func init() {
	mirrorsCmd.Flags().BoolVar(&mirrorsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(mirrorsCmd)
}

// mirrorEntry is one catalog candidate for display.
type mirrorEntry struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Current bool   `json:"current"`
}

func runMirrors(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	t, err := reg.Resolve(args[0])
	if err != nil {
		return err
	}

	status, err := t.Config.Status()
	if err != nil {
		return err
	}

	var entries []mirrorEntry
	for _, m := range t.Config.Mirrors() {
		entries = append(entries, mirrorEntry{
			Name:    m.Name,
			URL:     m.URL,
			Current: status.CurrentURL != "" && mirror.SameURL(m.URL, status.CurrentURL),
		})
	}

	if mirrorsJSON {
		return printJSON(cmd, entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, " \tNAME\tURL")
	for _, e := range entries {
		marker := " "
		if e.Current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", marker, e.Name, e.URL)
	}
	return w.Flush()
}
