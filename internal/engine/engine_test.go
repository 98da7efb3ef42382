package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/smartshop/internal/cache"
	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/model"
	"github.com/Veraticus/smartshop/internal/ocr"
	"github.com/Veraticus/smartshop/internal/receipt"
	"github.com/Veraticus/smartshop/internal/service"
	"github.com/Veraticus/smartshop/internal/storage"
	"github.com/Veraticus/smartshop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser int64 = 42

var testNow = time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)

var noRetry = service.RetryOptions{MaxAttempts: 1, InitialDelay: time.Millisecond}

type fakeRecognizer struct {
	err    error
	result ocr.Result
	calls  int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ string) (ocr.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeAdvisor struct {
	got   []string
	reply []string
}

func (f *fakeAdvisor) SuggestAdditional(_ context.Context, items []string) ([]string, error) {
	f.got = items
	return f.reply, nil
}

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	return testutil.SetupTestDB(t).Storage
}

func newTestAssistant(t *testing.T, opts ...Option) (*Assistant, *storage.SQLiteStorage, *cache.TTL[SuggestionReport]) {
	t.Helper()
	store := newTestStorage(t)
	c := cache.New[SuggestionReport](time.Hour)
	t.Cleanup(c.Close)

	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithCache(c),
		WithRetryOptions(noRetry),
	}
	return New(store, append(base, opts...)...), store, c
}

// seedMilk records milk every 8 days, the last trip 7 days before testNow.
func seedMilk(t *testing.T, store *storage.SQLiteStorage) {
	t.Helper()
	records := testutil.NewHistory(testUser, testNow).
		Starting(7).
		Every("Milk", model.CategoryDairy, 8, 8).
		Build()
	require.NoError(t, store.SavePurchases(context.Background(), records))
}

func TestProcessReceipt(t *testing.T) {
	assistant, store, _ := newTestAssistant(t)
	ctx := context.Background()

	outcome, err := assistant.ProcessReceipt(ctx, testUser, receipt.Input{
		RawText:    "SuperMart\n12/06/2024\nApples 2kg 5.00\nMilk 1L 3.50\nTotal 8.50",
		Confidence: 92,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, outcome.Receipt.ID)
	require.NotNil(t, outcome.Receipt.StoreName)
	assert.Equal(t, "SuperMart", *outcome.Receipt.StoreName)
	assert.Equal(t, time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC), outcome.Receipt.PurchaseDate)

	require.Len(t, outcome.Purchases, 2)
	assert.Equal(t, model.CategoryProduce, outcome.Purchases[0].Category)
	assert.Equal(t, model.CategoryDairy, outcome.Purchases[1].Category)
	for _, p := range outcome.Purchases {
		assert.Equal(t, outcome.Receipt.ID, p.ReceiptID)
		assert.Equal(t, testUser, p.UserID)
	}

	stored, err := store.GetPurchases(ctx, testUser, time.Time{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	receipts, err := store.GetReceipts(ctx, testUser, 0)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.InDelta(t, 92.0, receipts[0].Confidence, 1e-9)
}

func TestProcessReceipt_NoItemsPersistsNothing(t *testing.T) {
	assistant, store, _ := newTestAssistant(t)
	ctx := context.Background()

	_, err := assistant.ProcessReceipt(ctx, testUser, receipt.Input{RawText: "Corner Shop\nThank you\nTotal 0.00"})
	require.ErrorIs(t, err, common.ErrNoItems)
	assert.NotEqual(t, err.Error(), common.UserMessage(err))

	stats, err := store.GetUserStats(ctx, testUser)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalPurchases)

	receipts, err := store.GetReceipts(ctx, testUser, 0)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestProcessReceipt_UndatedUsesClock(t *testing.T) {
	assistant, _, _ := newTestAssistant(t)

	outcome, err := assistant.ProcessReceipt(context.Background(), testUser, receipt.Input{RawText: "Bread 2.49"})
	require.NoError(t, err)
	assert.True(t, testNow.Equal(outcome.Receipt.PurchaseDate))
	assert.Nil(t, outcome.Receipt.StoreName)
}

func TestScanReceipt(t *testing.T) {
	recognizer := &fakeRecognizer{result: ocr.Result{
		Text:       "FreshCo\nBananas 1.99",
		Lines:      []ocr.Line{{Text: "FreshCo", Confidence: 90}, {Text: "Bananas 1.99", Confidence: 80}},
		Confidence: 85,
	}}
	assistant, _, _ := newTestAssistant(t, WithRecognizer(recognizer))

	outcome, err := assistant.ScanReceipt(context.Background(), testUser, "receipt.jpg")
	require.NoError(t, err)

	require.Len(t, outcome.Extraction.Items, 1)
	item := outcome.Extraction.Items[0]
	assert.Equal(t, "Bananas", item.Name)
	assert.Equal(t, model.CategoryProduce, item.Category)
	require.NotNil(t, item.Confidence)
	assert.InDelta(t, 0.80, *item.Confidence, 1e-9)
	assert.InDelta(t, 85.0, outcome.Extraction.Confidence, 1e-9)
}

func TestScanReceipt_Unavailable(t *testing.T) {
	assistant, _, _ := newTestAssistant(t)
	_, err := assistant.ScanReceipt(context.Background(), testUser, "receipt.jpg")
	assert.ErrorIs(t, err, common.ErrOCRUnavailable)

	recognizer := &fakeRecognizer{err: common.ErrOCRUnavailable}
	assistant, _, _ = newTestAssistant(t,
		WithRecognizer(recognizer),
		WithRetryOptions(service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond}))
	_, err = assistant.ScanReceipt(context.Background(), testUser, "receipt.jpg")
	assert.ErrorIs(t, err, common.ErrOCRUnavailable)
	assert.Equal(t, 1, recognizer.calls)
}

func TestAddItems(t *testing.T) {
	assistant, store, _ := newTestAssistant(t)
	ctx := context.Background()

	purchases, err := assistant.AddItems(ctx, testUser, "bought 2kg apples and milk")
	require.NoError(t, err)
	require.Len(t, purchases, 2)

	assert.Equal(t, "Apples", purchases[0].ItemName)
	assert.Equal(t, model.CategoryProduce, purchases[0].Category)
	assert.InDelta(t, 2.0, purchases[0].Quantity, 1e-9)
	assert.Equal(t, model.CategoryDairy, purchases[1].Category)
	assert.True(t, testNow.Equal(purchases[1].PurchaseDate))

	stored, err := store.GetPurchases(ctx, testUser, time.Time{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	_, err = assistant.AddItems(ctx, testUser, " , ")
	assert.ErrorIs(t, err, common.ErrNoItems)
}

func TestSuggest_FromHistory(t *testing.T) {
	assistant, store, _ := newTestAssistant(t)
	seedMilk(t, store)

	report, err := assistant.Suggest(context.Background(), testUser)
	require.NoError(t, err)

	assert.False(t, report.IsFallback())
	assert.Empty(t, report.Defaults)
	assert.Equal(t, 1, report.Patterns)
	require.Len(t, report.Groups[model.CategoryDairy], 1)
	assert.Equal(t, []string{"Milk"}, report.ItemNames())
}

func TestSuggest_CacheAndInvalidation(t *testing.T) {
	assistant, store, c := newTestAssistant(t)
	ctx := context.Background()

	first, err := assistant.Suggest(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, first.IsFallback())

	_, cached := c.Get(SuggestionCacheKey(testUser))
	assert.True(t, cached)

	// Writes that bypass the assistant are not seen until the entry goes.
	seedMilk(t, store)
	again, err := assistant.Suggest(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, again.IsFallback())

	_, err = assistant.AddItems(ctx, testUser, "bread")
	require.NoError(t, err)
	_, cached = c.Get(SuggestionCacheKey(testUser))
	assert.False(t, cached)

	fresh, err := assistant.Suggest(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, fresh.IsFallback())
}

func TestSuggest_CachedReportIsNotShared(t *testing.T) {
	assistant, store, _ := newTestAssistant(t)
	seedMilk(t, store)
	ctx := context.Background()

	first, err := assistant.Suggest(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, first.Groups[model.CategoryDairy], 1)

	first.Groups[model.CategoryDairy][0].ItemName = "Tampered"
	first.Groups[model.CategoryDairy] = first.Groups[model.CategoryDairy][:0]
	delete(first.Groups, model.CategoryDairy)

	second, err := assistant.Suggest(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, second.Groups[model.CategoryDairy], 1)
	assert.Equal(t, "Milk", second.Groups[model.CategoryDairy][0].ItemName)

	second.Groups[model.CategoryDairy][0].ItemName = "Tampered"
	third, err := assistant.Suggest(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk"}, third.ItemNames())
}

func TestSuggest_CachedFallbackIsNotShared(t *testing.T) {
	assistant, _, _ := newTestAssistant(t)
	ctx := context.Background()

	first, err := assistant.Suggest(ctx, testUser)
	require.NoError(t, err)
	require.NotEmpty(t, first.Defaults)
	want := first.ItemNames()

	first.Defaults[0].ItemName = "Tampered"

	second, err := assistant.Suggest(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, want, second.ItemNames())
}

func TestSuggest_FallbackRespectsDiet(t *testing.T) {
	assistant, _, _ := newTestAssistant(t)
	ctx := context.Background()

	require.NoError(t, assistant.UpdatePreferences(ctx, &model.Preferences{UserID: testUser, Diet: model.DietVegan}))

	report, err := assistant.Suggest(ctx, testUser)
	require.NoError(t, err)
	require.True(t, report.IsFallback())

	names := report.ItemNames()
	assert.NotContains(t, names, "Milk")
	assert.NotContains(t, names, "Chicken Breast")
	assert.Contains(t, names, "Bread")
	for _, s := range report.Defaults {
		assert.NotEqual(t, model.CategoryDairy, s.Category)
		assert.NotEqual(t, model.CategoryMeat, s.Category)
	}
}

func TestSuggestAdditional(t *testing.T) {
	assistant, _, _ := newTestAssistant(t)
	_, err := assistant.SuggestAdditional(context.Background(), SuggestionReport{})
	assert.ErrorIs(t, err, common.ErrLLMUnavailable)

	advisor := &fakeAdvisor{reply: []string{"Butter"}}
	assistant, store, _ := newTestAssistant(t, WithAdvisor(advisor))
	seedMilk(t, store)

	report, err := assistant.Suggest(context.Background(), testUser)
	require.NoError(t, err)
	extra, err := assistant.SuggestAdditional(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, []string{"Butter"}, extra)
	assert.Equal(t, []string{"Milk"}, advisor.got)
}

func TestNextShoppingDay(t *testing.T) {
	assistant, store, _ := newTestAssistant(t)
	ctx := context.Background()

	_, err := assistant.NextShoppingDay(ctx, testUser)
	assert.ErrorIs(t, err, common.ErrNoHistory)

	seedMilk(t, store)
	next, err := assistant.NextShoppingDay(ctx, testUser)
	require.NoError(t, err)

	// Trips every 8 days, the last one 7 days before testNow.
	want := time.Date(2024, time.June, 23, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 8)
	assert.Equal(t, want, next)
}

func TestSimilarItemsAndClassify(t *testing.T) {
	assistant, store, _ := newTestAssistant(t)
	ctx := context.Background()

	require.NoError(t, store.SavePurchases(ctx, []model.PurchaseRecord{
		{UserID: testUser, ItemName: "Chicken Breast", Category: model.CategoryMeat, Quantity: 1, PurchaseDate: testNow},
		{UserID: testUser, ItemName: "Bread", Category: model.CategoryBakery, Quantity: 1, PurchaseDate: testNow},
	}))

	similar, err := assistant.SimilarItems(ctx, testUser, "Chicken Wings")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chicken Breast"}, similar)

	cat, err := assistant.Classify(ctx, "Greek Yogurt")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryDairy, cat)

	stats, err := assistant.Stats(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPurchases)
}

func TestErrorsAreUserFacing(t *testing.T) {
	assistant, _, _ := newTestAssistant(t)
	_, err := assistant.AddItems(context.Background(), testUser, "")

	var userErr *common.UserError
	require.True(t, errors.As(err, &userErr))
	assert.Contains(t, userErr.UserMessage, "No items recognized")
}
