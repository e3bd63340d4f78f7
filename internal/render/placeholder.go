package render

import (
	"regexp"
	"strconv"
	"strings"
)

// Quoted spans are matched first so that markers inside string literals and
// quoted identifiers are never treated as placeholders.
const quotedSpans = `'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"|` + "`[^`]*`"

var placeholderPatterns = map[PlaceholderStyle]*regexp.Regexp{
	PlaceholderQuestion: regexp.MustCompile(quotedSpans + `|(\?)`),
	PlaceholderDollar:   regexp.MustCompile(quotedSpans + `|(\$\d+)`),
	PlaceholderAtP:      regexp.MustCompile(quotedSpans + `|(@p\d+)`),
}

// Placeholder is one marker found in SQL text.
type Placeholder struct {
	Start    int
	End      int
	Position int // 1-based number carried by the marker; 0 for "?"
}

// Marker returns the placeholder text for the 1-based position n.
func (s PlaceholderStyle) Marker(n int) string {
	switch s {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(n)
	case PlaceholderAtP:
		return "@p" + strconv.Itoa(n)
	default:
		return "?"
	}
}

// String returns the marker shape for error messages.
func (s PlaceholderStyle) String() string {
	switch s {
	case PlaceholderDollar:
		return "$n"
	case PlaceholderAtP:
		return "@pn"
	default:
		return "?"
	}
}

// FindPlaceholders returns the markers of the given style that appear outside
// quoted spans, in textual order.
func FindPlaceholders(sql string, style PlaceholderStyle) []Placeholder {
	pattern, ok := placeholderPatterns[style]
	if !ok {
		pattern = placeholderPatterns[PlaceholderQuestion]
	}

	var found []Placeholder
	for _, m := range pattern.FindAllStringSubmatchIndex(sql, -1) {
		// m[2], m[3] delimit the marker group; -1 means a quoted span matched
		if m[2] < 0 {
			continue
		}
		p := Placeholder{Start: m[2], End: m[3]}
		if style != PlaceholderQuestion {
			digits := strings.TrimLeft(sql[m[2]:m[3]], "$@p")
			n, err := strconv.Atoi(digits)
			if err != nil {
				continue
			}
			p.Position = n
		}
		found = append(found, p)
	}
	return found
}

// ReplacePlaceholders rewrites each marker with the text returned by fn.
// The markers must come from FindPlaceholders on the same sql.
func ReplacePlaceholders(sql string, markers []Placeholder, fn func(i int, p Placeholder) string) string {
	if len(markers) == 0 {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql))
	last := 0
	for i, p := range markers {
		b.WriteString(sql[last:p.Start])
		b.WriteString(fn(i, p))
		last = p.End
	}
	b.WriteString(sql[last:])
	return b.String()
}
