package workflow

import (
	"regexp"
	"strings"
)

// markdownTokenRe splits a line into tokens while preserving **bold**,
// *italic*, and `code` runs as single tokens, so a front-end never renders
// half a Markdown run.
var markdownTokenRe = regexp.MustCompile("(\\*\\*[^*\\n]+\\*\\*|\\*[^*\\n]+\\*|`[^`\\n]+`|\\S+)")

// emitTextChunks streams the formatted answer line-by-line onto events. The
// first token of a line is emitted verbatim; subsequent tokens are prefixed
// by one space, so a naive front-end that concatenates Text payloads
// reproduces the line with leading/trailing whitespace dropped and inner
// whitespace runs collapsed to single spaces. A "\n" event separates lines.
func emitTextChunks(events chan<- Event, formatted string) {
	lines := strings.Split(formatted, "\n")
	for i, line := range lines {
		if i > 0 {
			events <- Event{Kind: EventText, Text: "\n"}
		}
		tokens := markdownTokenRe.FindAllString(line, -1)
		for j, tok := range tokens {
			text := tok
			if j > 0 {
				text = " " + tok
			}
			events <- Event{Kind: EventText, Text: text}
		}
	}
}
