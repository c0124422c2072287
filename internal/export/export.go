// Package export renders stored generations as downloadable text or CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned for formats other than txt and csv.
var ErrUnknownFormat = errors.New("unknown export format")

// csvHeader is the column order of CSV exports.
var csvHeader = []string{
	"platform",
	"product_name",
	"features",
	"title",
	"short_description",
	"bullets_joined",
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatCSV:
		return f, nil
	case "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q (want txt or csv)", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type served for a format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Filename returns the download name for a generation, e.g. card_42.csv.
func Filename(id int64, f Format) string {
	return fmt.Sprintf("card_%d.%s", id, f)
}

// Render renders gen in format f.
func Render(gen *domain.Generation, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(RenderText(gen)), nil
	case FormatCSV:
		return RenderCSV(gen)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// RenderText renders a labelled plain-text card ending in a newline.
func RenderText(gen *domain.Generation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Platform: %s\n", gen.Platform)
	fmt.Fprintf(&b, "Input: %s\n", gen.ProductName)
	if gen.Features != "" {
		fmt.Fprintf(&b, "Features: %s\n", gen.Features)
	}
	fmt.Fprintf(&b, "\nTitle: %s\n", gen.Title)
	fmt.Fprintf(&b, "\nDescription:\n%s\n", gen.ShortDescription)

	if bullets := nonEmpty(gen.Bullets); len(bullets) > 0 {
		b.WriteString("\nBullets:\n")
		for _, bullet := range bullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
	}

	return strings.TrimSpace(b.String()) + "\n"
}

// RenderCSV renders a header row and a single data row. Bullets are joined
// with " | ".
func RenderCSV(gen *domain.Generation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		csvHeader,
		{
			gen.Platform,
			gen.ProductName,
			gen.Features,
			gen.Title,
			gen.ShortDescription,
			strings.Join(nonEmpty(gen.Bullets), " | "),
		},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing csv export: %w", err)
	}
	return buf.Bytes(), nil
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
