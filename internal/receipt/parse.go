package receipt

import (
	"strings"

	"github.com/Veraticus/smartshop/internal/model"
	"github.com/Veraticus/smartshop/internal/textparse"
)

// Input is the OCR output for one receipt image.
type Input struct {
	RawText string
	// LineConfidence optionally carries a 0-100 confidence per line of
	// RawText, aligned with strings.Split(RawText, "\n"). Negative values
	// mean unknown.
	LineConfidence []float64
	// Confidence is the engine's overall mean confidence, 0-100.
	Confidence float64
}

// Parser orchestrates line classification over a whole receipt.
type Parser struct {
	classifier *Classifier
}

// NewParser returns a parser backed by classifier. A nil classifier uses the
// default grammars.
func NewParser(classifier *Classifier) *Parser {
	if classifier == nil {
		classifier = NewClassifier()
	}
	return &Parser{classifier: classifier}
}

var defaultParser = NewParser(nil)

// Parse parses in with the default grammars.
func Parse(in Input) model.ReceiptExtraction {
	return defaultParser.Parse(in)
}

// Parse never fails. A receipt with no recognizable item lines yields an
// extraction with an empty item list, and callers decide what to surface.
func (p *Parser) Parse(in Input) model.ReceiptExtraction {
	out := model.ReceiptExtraction{
		RawText:    in.RawText,
		Confidence: clampPercent(in.Confidence),
		Items:      []model.ParsedItem{},
	}

	var (
		lastTotal *float64
		index     int
	)
	for i, raw := range strings.Split(in.RawText, "\n") {
		line := normalizeLine(raw)
		if line == "" {
			continue
		}

		res := p.classifier.Classify(line, index)
		index++

		switch res.Kind {
		case LineStore:
			if out.StoreName == nil {
				store := res.Store
				out.StoreName = &store
			}
		case LineTotal:
			lastTotal = model.Float(res.Amount)
		case LineItem:
			item := res.Item
			item.Confidence = model.Float(lineConfidence(in, i))
			out.Items = append(out.Items, item)
		}
	}

	out.GrandTotal = lastTotal
	if out.GrandTotal == nil {
		out.GrandTotal = largestFigure(in.RawText)
	}
	if date, ok := ExtractDate(in.RawText); ok {
		out.PurchaseDate = &date
	}
	return out
}

// normalizeLine collapses runs of whitespace, including tabs, and trims.
func normalizeLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func lineConfidence(in Input, line int) float64 {
	if line < len(in.LineConfidence) && in.LineConfidence[line] >= 0 {
		return model.Clamp01(in.LineConfidence[line] / 100)
	}
	return model.Clamp01(in.Confidence / 100)
}

// largestFigure returns the largest currency-formatted number in text, with
// dates removed first so "12.03.2024" is not read as a price.
func largestFigure(text string) *float64 {
	text = stripDates(text)
	var best *float64
	for _, line := range strings.Split(text, "\n") {
		for _, price := range textparse.FindPrices(line) {
			if best == nil || price.Value > *best {
				best = model.Float(price.Value)
			}
		}
	}
	return best
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
