package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/report"
)

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses and balance for the current month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.dateRange("", "", true)
			if err != nil {
				return err
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			txns, err := st.UserTransactions(cmd.Context(), a.userID(), r)
			if err != nil {
				return fmt.Errorf("loading transactions: %w", err)
			}
			title := fmt.Sprintf("Resumo de %s a %s:", dates.FormatDMY(r.From), dates.FormatDMY(r.To))
			fmt.Fprintln(cmd.OutOrStdout(), report.FormatSummary(title, report.Summarize(txns)))
			return nil
		},
	}
}

func newStatementCommand(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "List transactions in a period (default: current month)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.dateRange(from, to, true)
			if err != nil {
				return err
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			txns, err := st.UserTransactions(cmd.Context(), a.userID(), r)
			if err != nil {
				return fmt.Errorf("loading transactions: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Statement(statementTitle(r.From, r.To), txns))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "inicio", "", "start date DD/MM/YYYY")
	cmd.Flags().StringVar(&to, "fim", "", "end date DD/MM/YYYY")

	return cmd
}
