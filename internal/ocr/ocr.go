// Package ocr defines the text recognition collaborator used to read
// receipt photos, plus the image preprocessing applied before recognition.
// The Tesseract-backed implementation lives in the tesseract subpackage so
// this package builds without cgo.
package ocr

import (
	"context"
	"strings"
)

// Recognizer extracts text from an image file.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (Result, error)
}

// Line is one recognized text line with its confidence on a 0..100 scale.
type Line struct {
	Text       string
	Confidence float64
}

// Result is the output of a recognition pass. Confidence is the mean word
// confidence on a 0..100 scale.
type Result struct {
	Text       string
	Lines      []Line
	Confidence float64
}

// MeanConfidence averages the strictly positive confidences. Engines report
// -1 or 0 for blocks without text, which would drag the mean down.
func MeanConfidence(confidences []float64) float64 {
	var sum float64
	var n int
	for _, c := range confidences {
		if c > 0 {
			sum += c
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// LineConfidences aligns per-line confidences with strings.Split(r.Text, "\n").
// Text lines are matched to recognized lines in order by their trimmed
// content; lines without a match get -1.
func (r Result) LineConfidences() []float64 {
	textLines := strings.Split(r.Text, "\n")
	out := make([]float64, len(textLines))

	next := 0
	for i, line := range textLines {
		out[i] = -1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for j := next; j < len(r.Lines); j++ {
			if strings.TrimSpace(r.Lines[j].Text) == trimmed {
				out[i] = r.Lines[j].Confidence
				next = j + 1
				break
			}
		}
	}
	return out
}
