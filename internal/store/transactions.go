package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixa-dev/caixa/internal/model"
)

// AddTransaction records txn for userID and returns its row ID.
func (s *Store) AddTransaction(ctx context.Context, userID int64, txn model.Transaction) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, amount, date, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID,
		txn.Amount.StringFixed(2),
		txn.Date.Format(dateFormat),
		nullString(txn.Description),
		s.now().UTC().Format(timestampFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading transaction id: %w", err)
	}
	return id, nil
}

// UserTransactions returns userID's transactions within r, newest first.
func (s *Store) UserTransactions(ctx context.Context, userID int64, r Range) ([]model.StoredTransaction, error) {
	clauses, args := r.where("date", []string{"user_id = ?"}, []any{userID})
	query := `SELECT id, user_id, amount, date, description, created_at FROM transactions WHERE ` +
		strings.Join(clauses, " AND ") + ` ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.StoredTransaction
	for rows.Next() {
		var (
			t                       model.StoredTransaction
			amount, date, createdAt string
			desc                    sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.UserID, &amount, &date, &desc, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		if err := decodeTransaction(&t.Transaction, amount, date, desc); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		if t.CreatedAt, err = time.Parse(timestampFormat, createdAt); err != nil {
			return nil, fmt.Errorf("transaction %d: parsing created_at %q: %w", t.ID, createdAt, err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// ExportTransactions returns every user's transactions within r, newest first,
// with the most recent username seen for each user.
func (s *Store) ExportTransactions(ctx context.Context, r Range) ([]model.ExportRow, error) {
	clauses, args := r.where("t.date", nil, nil)
	query := `SELECT t.user_id,
			COALESCE((SELECT i.username FROM interactions i
				WHERE i.user_id = t.user_id AND i.username <> ''
				ORDER BY i.id DESC LIMIT 1), ''),
			t.amount, t.date, t.description, t.created_at
		FROM transactions t`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY t.date DESC, t.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying export: %w", err)
	}
	defer rows.Close()

	var out []model.ExportRow
	for rows.Next() {
		var (
			row                     model.ExportRow
			txn                     model.Transaction
			amount, date, createdAt string
			desc                    sql.NullString
		)
		if err := rows.Scan(&row.UserID, &row.Username, &amount, &date, &desc, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning export row: %w", err)
		}
		if err := decodeTransaction(&txn, amount, date, desc); err != nil {
			return nil, err
		}
		row.Amount, row.Date, row.Description = txn.Amount, txn.Date, txn.Description
		if row.CreatedAt, err = time.Parse(timestampFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func decodeTransaction(t *model.Transaction, amount, date string, desc sql.NullString) error {
	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	if t.Date, err = time.Parse(dateFormat, date); err != nil {
		return fmt.Errorf("parsing date %q: %w", date, err)
	}
	t.Description = desc.String
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
