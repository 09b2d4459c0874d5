// Package extract isolates a runnable HTML document from free-form model
// output. Models are inconsistent about fencing their code, so a small
// ordered chain of matchers is tried and the raw text is the fallback.
package extract

import "strings"

const (
	fence        = "```"
	htmlFenceTag = "html"
	doctype      = "<!doctype html>"
	closingTag   = "</html>"
)

// Matcher reports the document it found in raw, if any.
type Matcher func(raw string) (string, bool)

// DefaultMatchers are tried in priority order by Code.
var DefaultMatchers = []Matcher{
	FencedHTML,
	BareDocument,
}

// Code returns the HTML document contained in raw. When no matcher applies
// raw is returned unchanged; callers must reject results for which IsEmpty
// reports true.
func Code(raw string) string {
	return CodeWith(raw, DefaultMatchers...)
}

// CodeWith runs matchers in order and returns the first match.
func CodeWith(raw string, matchers ...Matcher) string {
	for _, match := range matchers {
		if code, ok := match(raw); ok {
			return code
		}
	}
	return raw
}

// IsEmpty reports whether code has no usable content.
func IsEmpty(code string) bool {
	return strings.TrimSpace(code) == ""
}

// FencedHTML matches the first ```html block that has a closing fence and
// returns its trimmed interior. The language tag is matched
// case-insensitively. A block with nothing inside does not match.
func FencedHTML(raw string) (string, bool) {
	offset := 0
	for {
		idx := indexFold(raw[offset:], fence+htmlFenceTag)
		if idx < 0 {
			return "", false
		}
		start := offset + idx + len(fence) + len(htmlFenceTag)
		end := strings.Index(raw[start:], fence)
		if end < 0 {
			return "", false
		}
		// ```htmlx is a different language tag; keep scanning.
		if start < len(raw) && isTagChar(raw[start]) {
			offset = start
			continue
		}
		// An empty block leaves the document to the next matcher.
		if end == 0 {
			return "", false
		}
		return strings.TrimSpace(raw[start : start+end]), true
	}
}

// BareDocument matches the span from the first <!DOCTYPE html> through the
// first </html> after it, inclusive.
func BareDocument(raw string) (string, bool) {
	start := indexFold(raw, doctype)
	if start < 0 {
		return "", false
	}
	end := indexFold(raw[start:], closingTag)
	if end < 0 {
		return "", false
	}
	return raw[start : start+end+len(closingTag)], true
}

func isTagChar(b byte) bool {
	return b == '-' || b == '_' || b == '+' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// indexFold is strings.Index with ASCII case folding. Offsets stay valid for
// the input string, which strings.ToLower does not guarantee.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}
