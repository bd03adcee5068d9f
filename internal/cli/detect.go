package cli

import (
	"fmt"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/devhub-labs/devhub/internal/mirror"
	"github.com/devhub-labs/devhub/internal/registry"
)

var detectJSON bool

var detectCmd = &cobra.Command{
	Use:   "detect [tool]",
	Short: "Probe which tools are installed",
	Long: `Probe the local machine for one tool, or for every supported tool when
no argument is given. Detection is read-only; an absent tool is a
normal result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(detectCmd)
}

// detectEntry pairs a tool id with its probe result.
type detectEntry struct {
	Tool string `json:"tool"`
	mirror.DetectionInfo
}

func runDetect(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	var tools []*registry.Tool
	if len(args) == 1 {
		t, err := reg.Resolve(args[0])
		if err != nil {
			return err
		}
		tools = []*registry.Tool{t}
	} else {
		tools = reg.List()
	}

	entries := make([]detectEntry, len(tools))
	var wg sync.WaitGroup
	for i, t := range tools {
		wg.Add(1)
		go func(i int, t *registry.Tool) {
			defer wg.Done()
			entries[i] = detectEntry{Tool: t.ID, DetectionInfo: t.Detect(cmd.Context())}
		}(i, t)
	}
	wg.Wait()

	if detectJSON {
		return printJSON(cmd, entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TOOL\tINSTALLED\tVERSION\tPATH")
	for _, e := range entries {
		installed := "no"
		if e.Installed {
			installed = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Tool, installed, orDash(e.Version), orDash(e.Path))
	}
	return w.Flush()
}
