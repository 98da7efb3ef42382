package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleReceipt(t *testing.T) {
	got := Parse(Input{
		RawText:    "SuperMart\nApples 2kg 5.00\nMilk 1L 3.50\nTotal 8.50",
		Confidence: 92,
	})

	require.NotNil(t, got.StoreName)
	assert.Equal(t, "SuperMart", *got.StoreName)
	require.NotNil(t, got.GrandTotal)
	assert.InDelta(t, 8.50, *got.GrandTotal, 0.0001)
	assert.Nil(t, got.PurchaseDate)
	assert.InDelta(t, 92.0, got.Confidence, 0.0001)

	require.Len(t, got.Items, 2)

	apples := got.Items[0]
	assert.Equal(t, "Apples", apples.Name)
	assert.InDelta(t, 2.0, apples.Quantity, 0.0001)
	assert.Equal(t, "kg", apples.Unit)
	require.NotNil(t, apples.TotalPrice)
	assert.InDelta(t, 5.00, *apples.TotalPrice, 0.0001)
	require.NotNil(t, apples.Confidence)
	assert.InDelta(t, 0.92, *apples.Confidence, 0.0001)

	milk := got.Items[1]
	assert.Equal(t, "Milk", milk.Name)
	assert.InDelta(t, 1.0, milk.Quantity, 0.0001)
	assert.Equal(t, "l", milk.Unit)
	require.NotNil(t, milk.TotalPrice)
	assert.InDelta(t, 3.50, *milk.TotalPrice, 0.0001)
}

func TestParse_EmptyText(t *testing.T) {
	for _, text := range []string{"", "\n\n", "   \t  "} {
		got := Parse(Input{RawText: text, Confidence: 50})

		assert.NotNil(t, got.Items)
		assert.Empty(t, got.Items)
		assert.Nil(t, got.GrandTotal)
		assert.Nil(t, got.StoreName)
		assert.Nil(t, got.PurchaseDate)
		assert.Equal(t, text, got.RawText)
	}
}

func TestParse_NoItems(t *testing.T) {
	got := Parse(Input{RawText: "Corner Shop\nThank you\nTotal 0.00", Confidence: 70})

	assert.False(t, got.HasItems())
	require.NotNil(t, got.StoreName)
	assert.Equal(t, "Corner Shop", *got.StoreName)
}

func TestParse_KeepsDuplicatesInOrder(t *testing.T) {
	got := Parse(Input{RawText: "Market Hall\nMilk 1.20\nBread 2.10\nMilk 1.20"})

	require.Len(t, got.Items, 3)
	assert.Equal(t, []string{"Milk", "Bread", "Milk"}, []string{got.Items[0].Name, got.Items[1].Name, got.Items[2].Name})
}

func TestParse_LastTotalWins(t *testing.T) {
	text := "Market Hall\nBread 2.10\nCheese 5.40\nSubtotal 7.50\nTax 0.60\nTotal 8.10"
	got := Parse(Input{RawText: text})

	require.NotNil(t, got.GrandTotal)
	assert.InDelta(t, 8.10, *got.GrandTotal, 0.0001)
	assert.Len(t, got.Items, 2)
}

func TestParse_FallbackTotalIgnoresDates(t *testing.T) {
	text := "Market Hall\n14.03.2024\nBread 2.10\nMilk 1.20"
	got := Parse(Input{RawText: text})

	require.NotNil(t, got.GrandTotal)
	assert.InDelta(t, 2.10, *got.GrandTotal, 0.0001)
	require.NotNil(t, got.PurchaseDate)
	assert.Equal(t, time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC), *got.PurchaseDate)
}

func TestParse_FirstStoreWins(t *testing.T) {
	got := Parse(Input{RawText: "Fresh Foods\nMain Street Branch\nBread 2.10"})

	require.NotNil(t, got.StoreName)
	assert.Equal(t, "Fresh Foods", *got.StoreName)
}

func TestParse_WhitespaceNormalized(t *testing.T) {
	got := Parse(Input{RawText: "  Store Receipt  \n\tApples\t2.50 kg   5.00\n   \nMilk 1L         3.50\n"})

	require.Len(t, got.Items, 2)
	assert.Equal(t, "Apples", got.Items[0].Name)
	assert.InDelta(t, 2.5, got.Items[0].Quantity, 0.0001)
	assert.Equal(t, "kg", got.Items[0].Unit)
}

func TestParse_LineConfidence(t *testing.T) {
	got := Parse(Input{
		RawText:        "Corner Shop\n\nBread 2.10\nMilk 1.20\nEggs 3.00",
		Confidence:     80,
		LineConfidence: []float64{90, -1, 55, -1},
	})

	require.Len(t, got.Items, 3)
	assert.InDelta(t, 0.55, *got.Items[0].Confidence, 0.0001)
	assert.InDelta(t, 0.80, *got.Items[1].Confidence, 0.0001, "unknown line confidence falls back")
	assert.InDelta(t, 0.80, *got.Items[2].Confidence, 0.0001, "missing line confidence falls back")
}

func TestParse_ConfidenceClamped(t *testing.T) {
	got := Parse(Input{RawText: "Shop Name\nBread 2.10", Confidence: 140})

	assert.InDelta(t, 100.0, got.Confidence, 0.0001)
	require.Len(t, got.Items, 1)
	assert.InDelta(t, 1.0, *got.Items[0].Confidence, 0.0001)
}

func TestParse_StoreOnlyWithinHeader(t *testing.T) {
	got := Parse(Input{RawText: "Bread 2.10\nMilk 1.20\nEggs 3.00\nButter 2.00\nJam 1.50\nHave A Nice Day"})

	assert.Nil(t, got.StoreName)
	assert.Len(t, got.Items, 5)
}

func TestParser_CustomClassifier(t *testing.T) {
	p := NewParser(NewClassifier(DefaultGrammars()[2]))
	got := p.Parse(Input{RawText: "Shop Name\nYogurt 3 x 0.99 = 2.97"})

	require.Len(t, got.Items, 1)
	assert.Equal(t, "Yogurt 3 X 0.99 =", got.Items[0].Name)
}
