// Package extract turns raw model output into the three-field card schema.
// Extraction is total: malformed input degrades through an ordered list of
// strategies and never fails.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaInvalid is reported by Validate when extracted fields are too
// incomplete to be used without a repair pass.
var ErrSchemaInvalid = errors.New("extracted fields do not satisfy the card schema")

// Strategy names, in the order they are attempted.
const (
	StrategyDirect         = "direct"
	StrategyBlock          = "block"
	StrategyTrailingCommas = "trailing_commas"
	StrategyRegex          = "regex"
	StrategyFallback       = "fallback"
)

// Fields is the loosely validated output of extraction.
type Fields struct {
	Title            string   `json:"title"`
	ShortDescription string   `json:"short_description"`
	Bullets          []string `json:"bullets"`
}

// Validate returns ErrSchemaInvalid when the title is empty. An empty title
// means extraction recovered almost nothing and a repair pass is worthwhile.
func (f Fields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("title is empty: %w", ErrSchemaInvalid)
	}
	return nil
}

// Result pairs extracted fields with the strategy that produced them.
type Result struct {
	Fields   Fields
	Strategy string
}

// Strategy is one layer of the extraction pipeline. Apply reports false
// when the layer could not produce a structurally valid result.
type Strategy struct {
	Name  string
	Apply func(raw string) (Fields, bool)
}

var strategies = []Strategy{
	{Name: StrategyDirect, Apply: parseDirect},
	{Name: StrategyBlock, Apply: parseBlock},
	{Name: StrategyTrailingCommas, Apply: parseTrailingCommas},
	{Name: StrategyRegex, Apply: parseRegex},
	{Name: StrategyFallback, Apply: fallback},
}

// Strategies returns the extraction layers in the order Extract tries them.
func Strategies() []Strategy {
	out := make([]Strategy, len(strategies))
	copy(out, strategies)
	return out
}

// Extract runs each strategy in order and returns the first success. The
// final fallback always succeeds.
func Extract(raw string) Result {
	for _, s := range strategies {
		if f, ok := s.Apply(raw); ok {
			if f.Bullets == nil {
				f.Bullets = []string{}
			}
			return Result{Fields: f, Strategy: s.Name}
		}
	}
	// Not reached: fallback never declines.
	f, _ := fallback(raw)
	return Result{Fields: f, Strategy: StrategyFallback}
}

func parseDirect(raw string) (Fields, bool) {
	return parseSchema(strings.TrimSpace(raw))
}

func parseBlock(raw string) (Fields, bool) {
	for _, block := range candidateBlocks(raw) {
		if f, ok := parseSchema(block); ok {
			return f, true
		}
	}
	return Fields{}, false
}

func parseTrailingCommas(raw string) (Fields, bool) {
	for _, block := range candidateBlocks(raw) {
		cleaned := stripTrailingCommas(block)
		if cleaned == block {
			continue
		}
		if f, ok := parseSchema(cleaned); ok {
			return f, true
		}
	}
	return Fields{}, false
}

func fallback(raw string) (Fields, bool) {
	return Fields{
		ShortDescription: strings.TrimSpace(raw),
		Bullets:          []string{},
	}, true
}

// parseSchema decodes text as a JSON object whose title and
// short_description are strings and whose bullets is an array. Extra keys
// are ignored; non-string bullet items are coerced to their JSON text.
func parseSchema(text string) (Fields, bool) {
	if text == "" {
		return Fields{}, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return Fields{}, false
	}

	var f Fields
	if err := unmarshalField(obj, "title", &f.Title); err != nil {
		return Fields{}, false
	}
	if err := unmarshalField(obj, "short_description", &f.ShortDescription); err != nil {
		return Fields{}, false
	}

	var items []json.RawMessage
	if err := unmarshalField(obj, "bullets", &items); err != nil || items == nil {
		return Fields{}, false
	}
	f.Bullets = make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := coerceString(item); ok {
			f.Bullets = append(f.Bullets, s)
		}
	}

	return f, true
}

func unmarshalField(obj map[string]json.RawMessage, key string, dst any) error {
	raw, ok := obj[key]
	if !ok {
		return fmt.Errorf("%s: missing", key)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("%s: null", key)
	}
	return json.Unmarshal(raw, dst)
}

func coerceString(item json.RawMessage) (string, bool) {
	text := strings.TrimSpace(string(item))
	if text == "" || text == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s, true
	}
	return text, true
}
