package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func newEnginesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List OCR engines and whether they are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := a.cfg.Registry()
			available := reg.Available()
			out := cmd.OutOrStdout()

			for _, name := range reg.Names() {
				status := "missing"
				if slices.Contains(available, name) {
					status = "available"
				}
				fmt.Fprintf(out, "%-12s %s\n", name, status)
			}
			fmt.Fprintf(out, "\nConfigured order: %s\n", strings.Join(a.cfg.OCR.Engines, " -> "))
			if len(available) == 0 {
				fmt.Fprintln(out, "No OCR engine installed; receipt images cannot be read.")
			}
			return nil
		},
	}
}
