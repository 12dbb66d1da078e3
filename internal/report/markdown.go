package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixa-dev/caixa/internal/model"
)

// DefaultUserLimit caps the users listed in an interaction report.
const DefaultUserLimit = 1000

var messageValueRe = regexp.MustCompile(`-?\d+[.,]?\d*`)

// InteractionSource is the slice of the store the markdown report reads from.
type InteractionSource interface {
	Interactions(ctx context.Context) ([]model.Interaction, error)
}

// UserActivity aggregates one user's interactions.
type UserActivity struct {
	Key           string          `json:"-"`
	UserID        int64           `json:"user_id"`
	Username      string          `json:"username"`
	Count         int             `json:"count"`
	LastTimestamp time.Time       `json:"last_timestamp"`
	ValuesTotal   decimal.Decimal `json:"values_total"`
	ValuesCount   int             `json:"values_count"`
}

// MarshalJSON writes values_total as a JSON number.
func (u UserActivity) MarshalJSON() ([]byte, error) {
	type plain UserActivity
	return json.Marshal(struct {
		plain
		ValuesTotal json.Number `json:"values_total"`
	}{plain(u), json.Number(u.ValuesTotal.String())})
}

// Mean returns the average detected value, or false when none was detected.
func (u UserActivity) Mean() (decimal.Decimal, bool) {
	if u.ValuesCount == 0 {
		return decimal.Decimal{}, false
	}
	return u.ValuesTotal.Div(decimal.NewFromInt(int64(u.ValuesCount))), true
}

// InteractionReport summarizes chat activity.
type InteractionReport struct {
	GeneratedAt       time.Time
	TotalInteractions int
	TotalUsers        int
	Users             []UserActivity // most active first
}

// MessageValue returns the first number written in a chat message.
func MessageValue(msg string) (decimal.Decimal, bool) {
	m := messageValueRe.FindString(strings.ReplaceAll(msg, "R$", ""))
	if m == "" {
		return decimal.Decimal{}, false
	}
	m = strings.TrimRight(strings.Replace(m, ",", ".", 1), ".")
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// BuildInteractionReport groups interactions by user, most active first,
// keeping at most limit users (DefaultUserLimit when limit <= 0).
func BuildInteractionReport(interactions []model.Interaction, limit int, now time.Time) InteractionReport {
	if limit <= 0 {
		limit = DefaultUserLimit
	}

	byKey := make(map[string]*UserActivity)
	var order []string
	for _, in := range interactions {
		key := userKey(in)
		u, ok := byKey[key]
		if !ok {
			u = &UserActivity{Key: key, UserID: in.UserID, Username: in.Username}
			byKey[key] = u
			order = append(order, key)
		}
		u.Count++
		u.LastTimestamp = in.Timestamp
		if in.Username != "" {
			u.Username = in.Username
		}
		if v, ok := MessageValue(in.Message); ok {
			u.ValuesTotal = u.ValuesTotal.Add(v)
			u.ValuesCount++
		}
	}

	users := make([]UserActivity, 0, len(order))
	for _, k := range order {
		users = append(users, *byKey[k])
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Count > users[j].Count })
	if len(users) > limit {
		users = users[:limit]
	}

	return InteractionReport{
		GeneratedAt:       now,
		TotalInteractions: len(interactions),
		TotalUsers:        len(order),
		Users:             users,
	}
}

func userKey(in model.Interaction) string {
	if in.UserID != 0 {
		return strconv.FormatInt(in.UserID, 10)
	}
	if in.Username != "" {
		return "anon_" + in.Username
	}
	return "anon_unknown"
}

// WriteMarkdown renders the report.
func WriteMarkdown(w io.Writer, rep InteractionReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Relatório de Interações (%s UTC)\n\n", rep.GeneratedAt.UTC().Format(stampFormat))
	fmt.Fprintf(&b, "Total de interações: **%d**\n\n", rep.TotalInteractions)
	fmt.Fprintf(&b, "Total de usuários: **%d**\n\n", rep.TotalUsers)

	b.WriteString("## Top usuários por número de interações\n\n")
	for _, u := range rep.Users {
		name := u.Username
		if name == "" {
			name = u.Key
		}
		fmt.Fprintf(&b, "- **%s**: %d interações, última: %s\n", name, u.Count, u.LastTimestamp.UTC().Format(time.RFC3339))
		if mean, ok := u.Mean(); ok {
			fmt.Fprintf(&b, "  - valores detectados: %d (soma: %s, média: %s)\n",
				u.ValuesCount, u.ValuesTotal.StringFixed(2), mean.StringFixed(2))
		}
	}
	b.WriteString("\n## Usuários detalhado (JSON)\n\n")

	data, err := json.MarshalIndent(rep.Users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding users: %w", err)
	}
	b.WriteString("```json\n")
	b.Write(data)
	b.WriteString("\n```\n")

	_, err = io.WriteString(w, b.String())
	return err
}

// GenerateMarkdown writes an interaction report to dir/report_<stamp>.md and
// returns the file path.
func GenerateMarkdown(ctx context.Context, src InteractionSource, dir string, limit int, now time.Time) (string, error) {
	interactions, err := src.Interactions(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching interactions: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("report_%s.md", now.UTC().Format(stampFormat)))
	rep := BuildInteractionReport(interactions, limit, now)
	if err := writeFile(path, func(w io.Writer) error { return WriteMarkdown(w, rep) }); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
