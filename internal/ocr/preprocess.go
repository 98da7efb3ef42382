package ocr

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
)

// minHeight is the height small photos are upscaled to before recognition.
const minHeight = 1200

// Preprocess converts img to a high-contrast grayscale image sized for
// recognition.
func Preprocess(img image.Image) *image.NRGBA {
	out := imaging.Grayscale(img)
	if out.Bounds().Dy() < minHeight {
		out = imaging.Resize(out, 0, minHeight, imaging.Lanczos)
	}
	out = imaging.Blur(out, 0.5)
	out = imaging.AdjustContrast(out, 30)
	return imaging.Sharpen(out, 1)
}

// PreprocessFile preprocesses the image at path into a temporary PNG. The
// returned cleanup removes it.
func PreprocessFile(path string) (string, func(), error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("failed to open image: %w", err)
	}

	tmp, err := os.CreateTemp("", "smartshop-ocr-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	cleanup := func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove preprocessed image", "path", tmpPath, "error", err)
		}
	}

	if err := imaging.Save(Preprocess(img), tmpPath); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to save preprocessed image: %w", err)
	}
	return tmpPath, cleanup, nil
}
