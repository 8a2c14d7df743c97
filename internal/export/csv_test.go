package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focuslog/corehub/internal/model"
)

func mkTime(s string) time.Time {
	tm, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return tm
}

func TestCSV_HeaderAndRowShape(t *testing.T) {
	blocks := []model.BlockSummary{
		{
			ID:           "2026-03-15T10:00:00Z",
			StartTS:      mkTime("2026-03-15T10:00:00Z"),
			EndTS:        mkTime("2026-03-15T10:30:00Z"),
			TotalSeconds: 1800,
			TopItems: []model.TopItem{
				{Kind: model.ItemKindDomain, Entity: "docs.google.com", Title: "Spec Doc", Seconds: 1200},
				{Kind: model.ItemKindApp, Entity: "editor.exe", Seconds: 600},
			},
		},
	}
	out, err := CSV("2026-03-15", blocks)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])

	row := rows[1]
	assert.Equal(t, "2026-03-15", row[0])
	assert.Equal(t, "2026-03-15T10:00:00Z", row[1])
	assert.Equal(t, "1800", row[4])
	assert.Equal(t, "Spec Doc (docs.google.com)", row[5])
	assert.Equal(t, "1200", row[6])
	assert.Equal(t, "editor.exe", row[7])
	assert.Equal(t, "600", row[8])
	// unused top3-5 slots are blank
	assert.Equal(t, "", row[9])
	assert.Equal(t, "false", row[len(csvHeader)-7]) // skipped column, no review attached
}

func TestCSV_EmbeddedCommaIsEscaped(t *testing.T) {
	blocks := []model.BlockSummary{
		{
			ID:      "2026-03-15T10:00:00Z",
			StartTS: mkTime("2026-03-15T10:00:00Z"),
			EndTS:   mkTime("2026-03-15T10:30:00Z"),
			Review: &model.BlockReview{
				Doing:     "writing notes, then reviewing",
				UpdatedAt: mkTime("2026-03-15T10:31:00Z"),
			},
		},
	}
	out, err := CSV("2026-03-15", blocks)
	require.NoError(t, err)
	assert.Contains(t, out, `"writing notes, then reviewing"`)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestTopItemName_AppUsesBareEntity(t *testing.T) {
	assert.Equal(t, "editor.exe", topItemName(model.TopItem{Kind: model.ItemKindApp, Entity: "editor.exe"}))
}

func TestTopItemName_DomainWithoutTitleUsesBareEntity(t *testing.T) {
	assert.Equal(t, "docs.google.com", topItemName(model.TopItem{Kind: model.ItemKindDomain, Entity: "docs.google.com"}))
}
