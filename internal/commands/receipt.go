package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/model"
	"github.com/caixa-dev/caixa/internal/ocr"
	"github.com/caixa-dev/caixa/internal/receipt"
	"github.com/caixa-dev/caixa/internal/report"
)

func newReceiptCommand(a *app) *cobra.Command {
	var textFile bool
	var save bool

	cmd := &cobra.Command{
		Use:   "receipt <image>",
		Short: "Read a receipt image and show the extracted total, date and verdict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src receipt.TextSource = ocr.TextFile{}
			if !textFile {
				engine, err := a.ocrEngine()
				if err != nil {
					return err
				}
				src = engine
			}

			parsed, err := receipt.ParseImage(cmd.Context(), src, args[0])
			if err != nil {
				return err
			}
			verdict := receipt.NewClassifier(a.cfg.Receipt).Classify(parsed)
			printReceipt(cmd.OutOrStdout(), parsed, verdict)

			if !save {
				return nil
			}
			if verdict.Disposition() == model.DispositionReject {
				return fmt.Errorf("not saved: text does not look like a payment receipt")
			}
			txn, ok := receipt.Expense(parsed, a.clock().Today())
			if !ok {
				return fmt.Errorf("not saved: no total found")
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			id, err := st.AddTransaction(cmd.Context(), a.userID(), txn)
			if err != nil {
				return fmt.Errorf("saving receipt: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved transaction %d: %s %s\n", id, dates.FormatDMY(txn.Date), report.FormatBRL(txn.Amount))
			return nil
		},
	}

	cmd.Flags().BoolVar(&textFile, "text-file", false, "treat the argument as an OCR transcript instead of an image")
	cmd.Flags().BoolVar(&save, "save", false, "record the receipt as an expense")

	return cmd
}

func printReceipt(w io.Writer, r model.Receipt, v model.Verdict) {
	total := "-"
	if r.Total.Valid {
		total = report.FormatBRL(r.Total.Decimal)
	}
	date := "-"
	if r.HasDate() {
		date = dates.FormatDMY(r.Date)
	}
	fmt.Fprintf(w, "Total:       %s\n", total)
	fmt.Fprintf(w, "Date:        %s\n", date)
	fmt.Fprintf(w, "Description: %s\n", r.Description)
	fmt.Fprintf(w, "Values:      %d\n", len(r.Values))
	fmt.Fprintf(w, "Score:       %.2f (%s)\n", v.Score, v.Disposition())
	fmt.Fprintf(w, "Reasons:     %s\n", strings.Join(v.Reasons, ", "))
}
