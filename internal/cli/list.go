package cli

import (
	"encoding/json"
	"fmt"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/devhub-labs/devhub/internal/mirror"
	"github.com/devhub-labs/devhub/internal/registry"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported tools and their install state",
	Long:  `List every supported tool with its detected install state and the mirror it currently uses.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry is one tool row for display.
type listEntry struct {
	Tool      string `json:"tool"`
	Installed bool   `json:"installed"`
	Version   string `json:"version,omitempty"`
	Mirror    string `json:"mirror,omitempty"`
	MirrorURL string `json:"mirror_url,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	tools := reg.List()
	entries := make([]listEntry, len(tools))

	// Detection shells out per tool; probe them all at once.
	var wg sync.WaitGroup
	for i, t := range tools {
		wg.Add(1)
		go func(i int, t *registry.Tool) {
			defer wg.Done()
			info := t.Detect(cmd.Context())
			entries[i] = listEntry{
				Tool:      t.ID,
				Installed: info.Installed,
				Version:   info.SemVer,
			}
		}(i, t)
	}
	wg.Wait()

	// Status reads touch user dotfiles; keep them sequential and
	// tolerate per-tool read failures.
	for i, t := range tools {
		status, err := t.Config.Status()
		if err != nil {
			continue
		}
		entries[i].Mirror = mirrorLabel(status)
		entries[i].MirrorURL = status.CurrentURL
	}

	if listJSON {
		return printJSON(cmd, entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TOOL\tINSTALLED\tVERSION\tMIRROR")
	for _, e := range entries {
		installed := "no"
		if e.Installed {
			installed = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Tool, installed, orDash(e.Version), orDash(e.Mirror))
	}
	return w.Flush()
}

// mirrorLabel renders a status for humans: catalog name, raw URL for a
// custom mirror, empty for the official default.
func mirrorLabel(status mirror.ToolStatus) string {
	switch {
	case status.CurrentName != "":
		return status.CurrentName
	case status.CurrentURL != "":
		return status.CurrentURL
	default:
		return ""
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
