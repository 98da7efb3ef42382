package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/smartshop/internal/cache"
	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/engine"
	"github.com/Veraticus/smartshop/internal/llm"
	"github.com/Veraticus/smartshop/internal/ocr/tesseract"
	"github.com/Veraticus/smartshop/internal/receipt"
	"github.com/Veraticus/smartshop/internal/storage"
)

// openStorage opens the configured database and brings its schema up to date.
func (a *app) openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(a.settings.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// session is an opened store plus the assistant built on it.
type session struct {
	store     *storage.SQLiteStorage
	assistant *engine.Assistant
	closers   []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	if err := s.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// openSession wires the assistant with every collaborator the configuration
// enables. withAdvisor controls whether an LLM client is created.
func (a *app) openSession(ctx context.Context, withAdvisor bool) (*session, error) {
	store, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	s := &session{store: store}

	suggestions := cache.New[engine.SuggestionReport](a.settings.CacheTTL)
	s.closers = append(s.closers, suggestions.Close)

	opts := []engine.Option{
		engine.WithCache(suggestions),
		engine.WithHistoryDays(a.settings.HistoryDays),
		engine.WithRecognizer(tesseract.New(tesseract.Config{
			TessdataPrefix: a.settings.OCR.Tessdata,
			Languages:      a.settings.OCR.Languages,
			Preprocess:     a.settings.OCR.Preprocess,
		})),
	}

	if withAdvisor {
		client, err := llm.NewClient(a.settings.LLM)
		switch {
		case err == nil:
			s.closers = append(s.closers, client.Close)
			opts = append(opts, engine.WithAdvisor(llm.NewShoppingAdvisor(client)))
			slog.Debug("AI suggestions enabled", "provider", client.Provider())
		case errors.Is(err, common.ErrLLMUnavailable):
			slog.Debug("AI suggestions disabled", "reason", err)
		default:
			s.Close()
			return nil, err
		}
	}

	s.assistant = engine.New(store, opts...)
	return s, nil
}

// readReceiptText loads OCR output saved to a file, or stdin for "-".
func readReceiptText(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// receiptInput builds parser input for text whose engine confidence is
// known only as a whole.
func receiptInput(text string, confidence float64) receipt.Input {
	return receipt.Input{RawText: text, Confidence: confidence}
}
