package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/rshade/cloudconso/internal/carbon"
)

// RenderJSON writes r as indented JSON to w.
func RenderJSON(w io.Writer, r *Report) error {
	return WriteJSON(w, r)
}

// RenderComparisonJSON writes a provider comparison as indented JSON to w.
func RenderComparisonJSON(w io.Writer, comparisons []carbon.ProviderComparison) error {
	return WriteJSON(w, comparisons)
}

// WriteJSON writes v as indented JSON to w.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
