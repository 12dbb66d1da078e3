package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caixa-dev/caixa/internal/model"
	"github.com/caixa-dev/caixa/internal/store"
)

// ErrNoTransactions is returned when an export range holds no transactions.
var ErrNoTransactions = errors.New("no transactions in the requested period")

// Header is the CSV header of a transactions export.
const Header = "user_id,username,valor,data,descricao,criado_em"

const (
	numFields    = 6
	dateFormat   = "2006-01-02"
	stampFormat  = "20060102_150405"
	colUserID    = 0
	colUsername  = 1
	colAmount    = 2
	colDate      = 3
	colDesc      = 4
	colCreatedAt = 5
)

// Exporter is the slice of the store an export reads from.
type Exporter interface {
	ExportTransactions(ctx context.Context, r store.Range) ([]model.ExportRow, error)
}

// MarshalRow converts an ExportRow to a CSV record.
func MarshalRow(row model.ExportRow) []string {
	rec := make([]string, numFields)
	rec[colUserID] = strconv.FormatInt(row.UserID, 10)
	rec[colUsername] = row.Username
	rec[colAmount] = row.Amount.StringFixed(2)
	rec[colDate] = row.Date.Format(dateFormat)
	rec[colDesc] = row.Description
	rec[colCreatedAt] = row.CreatedAt.UTC().Format(time.RFC3339)
	return rec
}

// WriteCSV writes rows with a header.
func WriteCSV(w io.Writer, rows []model.ExportRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes every transaction in r to dir/transactions_<stamp>.csv and
// returns the file path.
func ExportCSV(ctx context.Context, src Exporter, dir string, r store.Range, now time.Time) (string, error) {
	rows, err := src.ExportTransactions(ctx, r)
	if err != nil {
		return "", fmt.Errorf("fetching transactions: %w", err)
	}
	if len(rows) == 0 {
		return "", ErrNoTransactions
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("transactions_%s.csv", now.UTC().Format(stampFormat)))
	if err := writeFile(path, func(w io.Writer) error { return WriteCSV(w, rows) }); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// writeFile creates path and fills it with write. On any failure, closing
// included, the file is removed.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
