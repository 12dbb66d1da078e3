package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/caixa-dev/caixa/internal/model"
)

// LogInteraction records one message/response exchange. A zero Timestamp is
// filled with the current time.
func (s *Store) LogInteraction(ctx context.Context, in model.Interaction) error {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	var meta sql.NullString
	if in.Metadata != nil {
		data, err := json.Marshal(in.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		meta = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (user_id, username, message, response, timestamp, metadata) VALUES (?, ?, ?, ?, ?, ?)`,
		in.UserID, nullString(in.Username), nullString(in.Message), nullString(in.Response),
		ts.UTC().Format(timestampFormat), meta,
	)
	if err != nil {
		return fmt.Errorf("inserting interaction: %w", err)
	}
	return nil
}

// RecentInteractions returns the last limit interactions, newest first.
func (s *Store) RecentInteractions(ctx context.Context, limit int) ([]model.Interaction, error) {
	return s.queryInteractions(ctx,
		`SELECT id, user_id, username, message, response, timestamp, metadata
		FROM interactions ORDER BY id DESC LIMIT ?`, limit)
}

// Interactions returns every interaction, oldest first.
func (s *Store) Interactions(ctx context.Context) ([]model.Interaction, error) {
	return s.queryInteractions(ctx,
		`SELECT id, user_id, username, message, response, timestamp, metadata
		FROM interactions ORDER BY id ASC`)
}

func (s *Store) queryInteractions(ctx context.Context, query string, args ...any) ([]model.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	var out []model.Interaction
	for rows.Next() {
		var (
			in                               model.Interaction
			userID                           sql.NullInt64
			username, msg, resp, ts, rawMeta sql.NullString
		)
		if err := rows.Scan(&in.ID, &userID, &username, &msg, &resp, &ts, &rawMeta); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		in.UserID = userID.Int64
		in.Username, in.Message, in.Response = username.String, msg.String, resp.String
		if ts.Valid {
			if in.Timestamp, err = time.Parse(timestampFormat, ts.String); err != nil {
				return nil, fmt.Errorf("interaction %d: parsing timestamp %q: %w", in.ID, ts.String, err)
			}
		}
		if rawMeta.Valid {
			if err := json.Unmarshal([]byte(rawMeta.String), &in.Metadata); err != nil {
				return nil, fmt.Errorf("interaction %d: decoding metadata: %w", in.ID, err)
			}
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
