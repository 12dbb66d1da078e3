package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/model"
	"github.com/caixa-dev/caixa/internal/store"
)

type fakeExporter struct {
	rows []model.ExportRow
	err  error
	got  store.Range
}

func (f *fakeExporter) ExportTransactions(_ context.Context, r store.Range) ([]model.ExportRow, error) {
	f.got = r
	return f.rows, f.err
}

func exportRow() model.ExportRow {
	return model.ExportRow{
		UserID:      42,
		Username:    "ana",
		Amount:      decimal.RequireFromString("-12.5"),
		Date:        dates.Day(2025, time.March, 15),
		Description: "padaria, centro",
		CreatedAt:   time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestMarshalRow(t *testing.T) {
	rec := MarshalRow(exportRow())
	assert.Equal(t, []string{"42", "ana", "-12.50", "2025-03-15", "padaria, centro", "2025-03-15T10:30:00Z"}, rec)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []model.ExportRow{exportRow()}))
	assert.Equal(t,
		Header+"\n"+`42,ana,-12.50,2025-03-15,"padaria, centro",2025-03-15T10:30:00Z`+"\n",
		buf.String())
}

func TestExportCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	now := time.Date(2025, 6, 1, 8, 9, 10, 0, time.UTC)
	src := &fakeExporter{rows: []model.ExportRow{exportRow()}}
	r := store.Range{From: dates.Day(2025, time.March, 1)}

	path, err := ExportCSV(context.Background(), src, dir, r, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "transactions_20250601_080910.csv"), path)
	assert.Equal(t, r, src.got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(Header+"\n")))
}

func TestExportCSV_Empty(t *testing.T) {
	dir := t.TempDir()
	_, err := ExportCSV(context.Background(), &fakeExporter{}, dir, store.Range{}, time.Now())
	assert.ErrorIs(t, err, ErrNoTransactions)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportCSV_SourceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := ExportCSV(context.Background(), &fakeExporter{err: boom}, t.TempDir(), store.Range{}, time.Now())
	assert.ErrorIs(t, err, boom)
}

func TestWriteFile_RemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.csv")
	boom := errors.New("disk full")

	err := writeFile(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, Header+"\n")
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

func TestWriteFile_CreateError(t *testing.T) {
	err := writeFile(filepath.Join(t.TempDir(), "missing", "x.csv"), func(io.Writer) error { return nil })
	assert.Error(t, err)
}
