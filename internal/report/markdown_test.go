package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixa-dev/caixa/internal/model"
)

type fakeInteractions []model.Interaction

func (f fakeInteractions) Interactions(context.Context) ([]model.Interaction, error) {
	return f, nil
}

func at(min int) time.Time {
	return time.Date(2025, 6, 1, 12, min, 0, 0, time.UTC)
}

func sampleInteractions() []model.Interaction {
	return []model.Interaction{
		{UserID: 1, Username: "ana", Message: "-12,50;15/03/2025;padaria", Timestamp: at(1)},
		{UserID: 2, Username: "bia", Message: "/resumo", Timestamp: at(2)},
		{UserID: 1, Username: "ana", Message: "R$ 100 salario", Timestamp: at(3)},
		{Username: "visitante", Message: "oi", Timestamp: at(4)},
		{UserID: 1, Username: "ana", Message: "obrigado", Timestamp: at(5)},
	}
}

func TestMessageValue(t *testing.T) {
	tests := []struct {
		msg  string
		want string
		ok   bool
	}{
		{"-12,50;15/03/2025;padaria", "-12.5", true},
		{"R$ 100 salario", "100", true},
		{"paguei 7. obrigado", "7", true},
		{"/resumo", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got, ok := MessageValue(tt.msg)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestBuildInteractionReport(t *testing.T) {
	rep := BuildInteractionReport(sampleInteractions(), 0, at(10))

	assert.Equal(t, 5, rep.TotalInteractions)
	assert.Equal(t, 3, rep.TotalUsers)
	require.Len(t, rep.Users, 3)

	ana := rep.Users[0]
	assert.Equal(t, "1", ana.Key)
	assert.Equal(t, 3, ana.Count)
	assert.Equal(t, at(5), ana.LastTimestamp)
	assert.Equal(t, 2, ana.ValuesCount)
	assert.Equal(t, "87.50", ana.ValuesTotal.StringFixed(2))
	mean, ok := ana.Mean()
	require.True(t, ok)
	assert.Equal(t, "43.75", mean.StringFixed(2))

	assert.Equal(t, "2", rep.Users[1].Key)
	assert.Equal(t, "anon_visitante", rep.Users[2].Key)
	_, ok = rep.Users[1].Mean()
	assert.False(t, ok)
}

func TestBuildInteractionReport_Limit(t *testing.T) {
	rep := BuildInteractionReport(sampleInteractions(), 1, at(10))
	assert.Equal(t, 3, rep.TotalUsers)
	require.Len(t, rep.Users, 1)
	assert.Equal(t, "ana", rep.Users[0].Username)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, BuildInteractionReport(sampleInteractions(), 0, at(10))))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Relatório de Interações (20250601_121000 UTC)"))
	assert.Contains(t, out, "Total de interações: **5**")
	assert.Contains(t, out, "Total de usuários: **3**")
	assert.Contains(t, out, "- **ana**: 3 interações")
	assert.Contains(t, out, "soma: 87.50, média: 43.75")
	assert.Contains(t, out, "```json\n")
	assert.Contains(t, out, `"username": "visitante"`)
}

func TestGenerateMarkdown(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	path, err := GenerateMarkdown(context.Background(), fakeInteractions(sampleInteractions()), dir, 0, at(10))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_20250601_121000.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total de interações: **5**")
}

func TestGenerateMarkdown_NoInteractions(t *testing.T) {
	path, err := GenerateMarkdown(context.Background(), fakeInteractions(nil), t.TempDir(), 0, at(10))
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total de interações: **0**")
}

func TestUserActivity_JSONValuesTotalIsNumber(t *testing.T) {
	rep := BuildInteractionReport(sampleInteractions(), 0, at(10))

	data, err := json.Marshal(rep.Users[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"values_total":87.5`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 87.5, decoded["values_total"])
	assert.Equal(t, float64(1), decoded["user_id"])
	assert.Equal(t, float64(2), decoded["values_count"])
	assert.NotContains(t, decoded, "Key")
}
