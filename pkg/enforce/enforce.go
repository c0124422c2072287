// Package enforce post-processes extracted card fields so the result always
// satisfies a marketplace profile, synthesizing missing parts from the
// request when the model left them out.
package enforce

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/donaldgifford/cardsmith/pkg/extract"
	"github.com/donaldgifford/cardsmith/pkg/profile"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// descriptionSeparator joins bullets or feature fragments into a description.
const descriptionSeparator = "; "

var (
	strict = bluemonday.StrictPolicy()

	// Features are split on newlines, semicolons, bullet glyphs, spaced
	// dashes and commas.
	fragmentSplitRe = regexp.MustCompile(`\r?\n|;|[•·▪●]|\s[-–—]\s|,`)

	// markupTagRe matches an HTML tag at the start of its input. Bracketed
	// product text such as <USB-C> or <Mouse> is not a tag.
	markupTagRe = regexp.MustCompile(
		`^</?(?i:a|b|blockquote|br|code|div|em|font|h[1-6]|hr|i|iframe|img|li|ol|p|pre|` +
			`script|small|span|strong|style|sub|sup|table|td|th|tr|u|ul)(?:\s[^<>]*)?/?>`,
	)
)

// Enforce returns a card that respects p's limits. It never fails: missing
// fields are rebuilt from the request's product name and features.
func Enforce(
	p domain.PlatformProfile,
	f extract.Fields,
	req domain.GenerationRequest,
) domain.ProductCard {
	title := Clean(f.Title)
	description := Clean(f.ShortDescription)
	bullets := cleanBullets(f.Bullets)

	productName := Clean(req.ProductName)
	if productName == "" {
		productName = collapseSpace(req.ProductName)
	}
	fragments := FeatureFragments(req.Features)

	if title == "" {
		title = productName
	}

	if len(bullets) == 0 {
		bullets = fragments
	}
	bullets = capBullets(bullets, p.BulletsMax)

	if description == "" {
		switch {
		case len(bullets) > 0:
			description = strings.Join(bullets, descriptionSeparator)
		case len(fragments) > 0:
			description = strings.Join(fragments, descriptionSeparator)
		default:
			description = productName
		}
	}

	return domain.ProductCard{
		Title:            Truncate(title, p.TitleMax),
		ShortDescription: Truncate(description, profile.EffectiveDescriptionLimit(p, req.Length)),
		Bullets:          padBullets(bullets, p.BulletsMin),
	}
}

// Clean strips HTML tags, decodes entities and collapses whitespace. Angle
// brackets that do not open a known HTML tag are kept as text.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	return collapseSpace(html.UnescapeString(strict.Sanitize(escapeStrayBrackets(s))))
}

// escapeStrayBrackets entity-encodes every '<' that does not start a markup
// tag so the sanitizer treats it as text.
func escapeStrayBrackets(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '<' && !markupTagRe.MatchString(s[i:]) {
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FeatureFragments splits free-form features into trimmed clause-like
// fragments, dropping empties and case-insensitive duplicates while keeping
// the first occurrence order.
func FeatureFragments(features string) []string {
	features = strings.TrimSpace(features)
	if features == "" {
		return []string{}
	}

	parts := fragmentSplitRe.Split(features, -1)
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		frag := trimBulletMarker(Clean(part))
		if frag == "" {
			continue
		}
		key := strings.ToLower(frag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, frag)
	}
	return out
}

// Truncate shortens s to at most limit runes, dropping whitespace left
// dangling at the cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace)
}

func cleanBullets(in []string) []string {
	out := make([]string, 0, len(in))
	for _, b := range in {
		if b = trimBulletMarker(Clean(b)); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func trimBulletMarker(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, "-*•·▪● \t"))
}

func capBullets(bullets []string, limit int) []string {
	if limit >= 0 && len(bullets) > limit {
		return bullets[:limit]
	}
	return bullets
}

// padBullets repeats existing bullets in order until min is reached. An
// empty list stays empty.
func padBullets(bullets []string, minCount int) []string {
	out := make([]string, 0, max(len(bullets), minCount))
	out = append(out, bullets...)
	n := len(bullets)
	if n == 0 {
		return out
	}
	for i := 0; len(out) < minCount; i++ {
		out = append(out, bullets[i%n])
	}
	return out
}
