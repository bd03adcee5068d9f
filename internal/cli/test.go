package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/devhub-labs/devhub/internal/mirror"
)

var testJSON bool

var testCmd = &cobra.Command{
	Use:   "test <tool>",
	Short: "Benchmark a tool's catalog mirrors",
	Long: `Probe every catalog mirror for the tool concurrently and print them
ranked fastest first. Nothing is applied; use 'use --fastest' to also
switch.`,
	Args: cobra.ExactArgs(1),
	RunE: runTest,
}

func init() {
	testCmd.Flags().BoolVar(&testJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	t, err := reg.Resolve(args[0])
	if err != nil {
		return err
	}
	if len(t.Config.Mirrors()) == 0 {
		return fmt.Errorf("no catalog mirrors for %s", t.ID)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Testing %d mirrors for %s...\n", len(t.Config.Mirrors()), t.ID)
	results := t.Config.TestSpeed(cmd.Context())

	if testJSON {
		return printJSON(cmd, results)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tURL\tLATENCY")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.URL, latencyLabel(r))
	}
	return w.Flush()
}

func latencyLabel(r mirror.SpeedResult) string {
	if r.IsTimeout {
		return "timeout"
	}
	return fmt.Sprintf("%dms", r.LatencyMS)
}
