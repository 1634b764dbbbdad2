// Package highlight builds the keyword decorator used by the diff view:
// background runs behind whole-word, case-insensitive keyword matches in
// rendered text. Matching never alters the text or its metrics.
package highlight

import (
	"regexp"
	"strings"

	"careerstealth/internal/layout"
)

var wordChar = regexp.MustCompile(`^\w$`)

// pattern builds the regexp fragment for one keyword. Keywords are quoted
// so regex metacharacters ("C++", "C#") match literally; word boundaries
// are only anchored on sides that end in word characters, since \b after
// a symbol would never match.
func pattern(keyword string) string {
	quoted := regexp.QuoteMeta(keyword)
	runes := []rune(keyword)
	if wordChar.MatchString(string(runes[0])) {
		quoted = `\b` + quoted
	}
	if wordChar.MatchString(string(runes[len(runes)-1])) {
		quoted += `\b`
	}
	return quoted
}

// NewDecorator compiles the keyword set into a layout decorator. Empty or
// blank keyword sets yield a nil decorator, which the renderer treats as
// "no decoration".
func NewDecorator(keywords []string) layout.Decorator {
	var parts []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		parts = append(parts, pattern(kw))
	}
	if len(parts) == 0 {
		return nil
	}

	re, err := regexp.Compile(`(?i)(` + strings.Join(parts, "|") + `)`)
	if err != nil {
		// QuoteMeta output always compiles; a failure here means the
		// boundary assembly above is broken.
		return nil
	}

	return func(line string) []layout.Span {
		matches := re.FindAllStringIndex(line, -1)
		if len(matches) == 0 {
			return nil
		}
		spans := make([]layout.Span, 0, len(matches))
		for _, m := range matches {
			spans = append(spans, layout.Span{Start: m[0], End: m[1]})
		}
		return spans
	}
}
