package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderExtraction(t *testing.T) {
	date := time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC)
	out := RenderExtraction(model.ReceiptExtraction{
		StoreName:    model.String("SuperMart"),
		PurchaseDate: &date,
		GrandTotal:   model.Float(8.5),
		Confidence:   92,
		Items: []model.ParsedItem{
			{Name: "Apples", Quantity: 2, Unit: model.UnitKilogram, TotalPrice: model.Float(5), Category: model.CategoryProduce},
			{Name: "Bread", Quantity: 1, Unit: model.UnitPiece},
		},
	})

	assert.Contains(t, out, "SuperMart")
	assert.Contains(t, out, "2024-06-12")
	assert.Contains(t, out, "2 kg Apples  5.00")
	assert.Contains(t, out, "[produce]")
	assert.Contains(t, out, "1x Bread")
	assert.Contains(t, out, "8.50")
	assert.Contains(t, out, "OCR confidence 92%, 2 items")
}

func TestRenderExtraction_UnknownStore(t *testing.T) {
	out := RenderExtraction(model.ReceiptExtraction{Items: []model.ParsedItem{}})
	assert.Contains(t, out, "unknown store")
	assert.NotContains(t, out, "Total:")
}

func TestRenderSuggestions(t *testing.T) {
	groups := model.SuggestionGroups{
		model.CategoryDairy: {{ItemName: "Milk", Category: model.CategoryDairy, Confidence: 0.72, Reason: "bought frequently (8 times)"}},
	}
	out := RenderSuggestions(groups, nil, []string{"Butter"})

	assert.Contains(t, out, "Dairy")
	assert.Contains(t, out, "Milk")
	assert.Contains(t, out, "(72%)")
	assert.Contains(t, out, "bought frequently (8 times)")
	assert.Contains(t, out, "You might also need")
	assert.Contains(t, out, "Butter")
	assert.NotContains(t, out, "Popular staples")
}

func TestRenderSuggestions_Fallback(t *testing.T) {
	defaults := []model.Suggestion{{ItemName: "Bread", Category: model.CategoryBakery, Reason: "popular staple"}}
	out := RenderSuggestions(nil, defaults, nil)

	assert.Contains(t, out, "Popular staples")
	assert.Contains(t, out, "Bread")
	assert.NotContains(t, out, "You might also need")
}

func TestRenderStats(t *testing.T) {
	out := RenderStats(&model.UserStats{
		TotalPurchases: 6,
		UniqueItems:    3,
		Categories:     2,
		DaysTracked:    10,
		TopCategories:  []model.NamedCount{{Name: "dairy", Count: 4}},
		TopItems:       []model.NamedCount{{Name: "Milk", Count: 4}},
	})

	assert.Contains(t, out, "Shopping statistics")
	assert.Contains(t, out, "Total purchases: 6")
	assert.Contains(t, out, "Days tracked:    10")
	assert.Contains(t, out, "Top categories")
	assert.Contains(t, out, "Milk")
}

func TestRenderKeywordTable(t *testing.T) {
	out := RenderKeywordTable(model.KeywordTable{
		{Category: model.CategoryDairy, Keywords: []string{"milk", "cheese"}},
		{Category: model.CategoryOther, Keywords: []string{}},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "milk, cheese")
	assert.Contains(t, lines[1], "(no keywords)")
}

func TestRenderNextTrip(t *testing.T) {
	now := time.Date(2024, time.June, 30, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		next time.Time
		want string
	}{
		{next: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), want: "tomorrow"},
		{next: time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), want: "today"},
		{next: time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC), want: "in 5 days"},
		{next: time.Date(2024, time.June, 27, 0, 0, 0, 0, time.UTC), want: "overdue by 3 days"},
	}
	for _, tt := range tests {
		assert.Contains(t, RenderNextTrip(tt.next, now), tt.want)
	}
}

func TestNewScanProgress(t *testing.T) {
	var out bytes.Buffer
	bar := NewScanProgress(&out, 2)
	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Add(1))
	assert.True(t, bar.IsFinished())
}
