package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/report"
)

func newReportCommand(a *app) *cobra.Command {
	var asCSV bool
	var from, to, dir string
	var limit int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write an interaction report (markdown) or a transactions export (--csv)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = a.cfg.Reports.Dir
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			now := time.Now()
			if !asCSV {
				path, err := report.GenerateMarkdown(cmd.Context(), st, dir, limit, now)
				if err != nil {
					return fmt.Errorf("generating report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				return nil
			}

			r, err := a.dateRange(from, to, false)
			if err != nil {
				return err
			}
			path, err := report.ExportCSV(cmd.Context(), st, dir, r, now)
			if errors.Is(err, report.ErrNoTransactions) {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions in the requested period.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("exporting transactions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transactions exported to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "export transactions as CSV")
	cmd.Flags().StringVar(&from, "inicio", "", "CSV start date DD/MM/YYYY")
	cmd.Flags().StringVar(&to, "fim", "", "CSV end date DD/MM/YYYY")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default reports.dir)")
	cmd.Flags().IntVar(&limit, "limit", report.DefaultUserLimit, "maximum users listed in the markdown report")

	return cmd
}

func statementTitle(from, to time.Time) string {
	switch {
	case from.IsZero() && to.IsZero():
		return "Extrato completo"
	case to.IsZero():
		return "Extrato desde " + dates.FormatDMY(from)
	case from.IsZero():
		return "Extrato até " + dates.FormatDMY(to)
	default:
		return fmt.Sprintf("Extrato de %s a %s", dates.FormatDMY(from), dates.FormatDMY(to))
	}
}
