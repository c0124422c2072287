package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// quoteTracker follows JSON string literals one byte at a time.
type quoteTracker struct {
	inString bool
	escaped  bool
}

// consume reports whether c belongs to an open string literal, closing
// quote included, and advances past it. Callers open a string themselves
// when they see '"' outside one.
func (q *quoteTracker) consume(c byte) bool {
	if !q.inString {
		return false
	}
	switch {
	case q.escaped:
		q.escaped = false
	case c == '\\':
		q.escaped = true
	case c == '"':
		q.inString = false
	}
	return true
}

// candidateBlocks returns every top-level balanced {...} block in order,
// followed by the greedy span from the first '{' to the last '}' when that
// span is not already one of them. Braces inside JSON strings are ignored.
func candidateBlocks(text string) []string {
	var (
		blocks []string
		depth  int
		start  = -1
		q      quoteTracker
	)

	for i := 0; i < len(text); i++ {
		c := text[i]
		if q.consume(c) {
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				q.inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				blocks = append(blocks, text[start:i+1])
				start = -1
			}
		}
	}

	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first >= 0 && last > first {
		greedy := text[first : last+1]
		if len(blocks) == 0 || blocks[0] != greedy {
			blocks = append(blocks, greedy)
		}
	}

	return blocks
}

// arrayBody returns the contents of the array whose '[' directly precedes
// text, up to its matching ']'. Brackets inside strings and nested arrays
// are skipped. It reports false when the array is never closed.
func arrayBody(text string) (string, bool) {
	var (
		depth = 1
		q     quoteTracker
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if q.consume(c) {
			continue
		}
		switch c {
		case '"':
			q.inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[:i], true
			}
		}
	}
	return "", false
}

// stripTrailingCommas removes commas that directly precede a closing '}'
// or ']' (ignoring whitespace), leaving string contents untouched.
func stripTrailingCommas(text string) string {
	var (
		b strings.Builder
		q quoteTracker
	)
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		if q.consume(c) {
			b.WriteByte(c)
			continue
		}

		if c == '"' {
			q.inString = true
		}
		if c == ',' && closesNext(text[i+1:]) {
			continue
		}
		b.WriteByte(c)
	}

	return b.String()
}

func closesNext(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	return rest != "" && (rest[0] == '}' || rest[0] == ']')
}

const jsonString = `"((?:[^"\\]|\\.)*)"`

var (
	titleRe       = regexp.MustCompile(`"title"\s*:\s*` + jsonString)
	descriptionRe = regexp.MustCompile(`"short_description"\s*:\s*` + jsonString)
	bulletsKeyRe  = regexp.MustCompile(`"bullets"\s*:\s*\[`)
	bulletItemRe  = regexp.MustCompile(jsonString)
)

// parseRegex pulls fields one by one from the first candidate block, then
// from the whole text. It succeeds when the title or the description was
// found.
func parseRegex(raw string) (Fields, bool) {
	if blocks := candidateBlocks(raw); len(blocks) > 0 {
		if f, ok := parseRegexText(blocks[0]); ok {
			return f, true
		}
	}
	return parseRegexText(raw)
}

func parseRegexText(text string) (Fields, bool) {
	var (
		f     Fields
		found bool
	)
	if m := titleRe.FindStringSubmatch(text); m != nil {
		f.Title = unquote(m[1])
		found = true
	}
	if m := descriptionRe.FindStringSubmatch(text); m != nil {
		f.ShortDescription = unquote(m[1])
		found = true
	}
	if !found {
		return Fields{}, false
	}
	f.Bullets = regexBullets(text)
	return f, true
}

func regexBullets(text string) []string {
	bullets := []string{}
	loc := bulletsKeyRe.FindStringIndex(text)
	if loc == nil {
		return bullets
	}
	body, ok := arrayBody(text[loc[1]:])
	if !ok {
		return bullets
	}
	for _, item := range bulletItemRe.FindAllStringSubmatch(body, -1) {
		bullets = append(bullets, unquote(item[1]))
	}
	return bullets
}

// unquote decodes JSON escapes in a captured string body, returning the
// capture verbatim when it is not valid JSON.
func unquote(body string) string {
	var s string
	if err := json.Unmarshal([]byte(`"`+body+`"`), &s); err != nil {
		return body
	}
	return s
}
