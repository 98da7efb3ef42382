// Package tesseract implements ocr.Recognizer with the Tesseract engine
// through gosseract. It requires the tesseract and leptonica libraries.
package tesseract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/ocr"
	"github.com/otiai10/gosseract/v2"
)

// DefaultWhitelist restricts recognition to characters found on receipts.
const DefaultWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.,$/€£¥ "

// Config configures a Recognizer.
type Config struct {
	TessdataPrefix string
	Whitelist      string
	Languages      []string
	Preprocess     bool
}

// Recognizer runs Tesseract on receipt images. A new engine client is made
// per call since gosseract clients are not safe for concurrent use.
type Recognizer struct {
	cfg Config
}

var _ ocr.Recognizer = (*Recognizer)(nil)

// New creates a Recognizer. Empty languages default to English and an empty
// whitelist to DefaultWhitelist.
func New(cfg Config) *Recognizer {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"eng"}
	}
	if cfg.Whitelist == "" {
		cfg.Whitelist = DefaultWhitelist
	}
	return &Recognizer{cfg: cfg}
}

// Version reports the linked Tesseract version.
func Version() string {
	return gosseract.Version()
}

// Recognize extracts text, per-line confidences and the mean word
// confidence from the image at imagePath.
func (r *Recognizer) Recognize(ctx context.Context, imagePath string) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	source := imagePath
	if r.cfg.Preprocess {
		prepared, cleanup, err := ocr.PreprocessFile(imagePath)
		if err != nil {
			slog.Warn("image preprocessing failed, using original", "path", imagePath, "error", err)
		} else {
			defer cleanup()
			source = prepared
		}
	}

	client := gosseract.NewClient()
	defer func() {
		if err := client.Close(); err != nil {
			slog.Debug("failed to close tesseract client", "error", err)
		}
	}()

	if err := r.configure(client); err != nil {
		return ocr.Result{}, fmt.Errorf("%w: %w", common.ErrOCRUnavailable, err)
	}
	if err := client.SetImage(source); err != nil {
		return ocr.Result{}, fmt.Errorf("failed to load image %s: %w", imagePath, err)
	}

	text, err := client.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("ocr error: %w", err)
	}

	words, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("failed to read word confidences: %w", err)
	}
	confidences := make([]float64, len(words))
	for i, w := range words {
		confidences[i] = w.Confidence
	}

	lineBoxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("failed to read line confidences: %w", err)
	}
	lines := make([]ocr.Line, len(lineBoxes))
	for i, b := range lineBoxes {
		lines[i] = ocr.Line{Text: b.Word, Confidence: b.Confidence}
	}

	result := ocr.Result{
		Text:       text,
		Lines:      lines,
		Confidence: ocr.MeanConfidence(confidences),
	}
	slog.Debug("receipt image recognized",
		"path", imagePath,
		"lines", len(lines),
		"confidence", result.Confidence)
	return result, nil
}

func (r *Recognizer) configure(client *gosseract.Client) error {
	if r.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(r.cfg.TessdataPrefix); err != nil {
			return fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(r.cfg.Languages...); err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetWhitelist(r.cfg.Whitelist); err != nil {
		return fmt.Errorf("failed to set whitelist: %w", err)
	}
	return nil
}
