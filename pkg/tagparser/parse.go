package tagparser

import (
	"regexp"
	"strings"
)

// shorthand maps two-letter openers to their canonical tag name. Rewriting
// happens before tag matching so shorthand and canonical forms share one
// grammar table.
var shorthand = map[string]string{
	"tz": "todozi",
	"mm": "memory",
	"id": "idea",
	"ch": "chunk",
	"er": "error",
	"tn": "train",
	"fe": "feel",
	"sm": "summary",
	"rd": "reminder",
}

// minFields is the minimum count of positional fields each tag requires
// before any optional key=value fields.
var minFields = map[string]int{
	"todozi":       5,
	"memory":       6,
	"idea":         3,
	"chunk":        3,
	"error":        5,
	"train":        4,
	"feel":         3,
	"summary":      2,
	"reminder":     3,
	"todozi_agent": 3,
}

// dispatch maps a canonical tag name to the function that turns its parsed
// fields into a record on ChatContent (or a rejection in c.Issues). A
// static map instead of a type switch, mirroring the tag-name-to-factory
// mapping used for dynamic dispatch elsewhere in the pack.
var dispatch = map[string]func(*ChatContent, rawFields){
	"todozi":       parseTask,
	"memory":       parseMemory,
	"idea":         parseIdea,
	"chunk":        parseChunk,
	"error":        parseError,
	"train":        parseTrain,
	"feel":         parseFeel,
	"summary":      parseSummary,
	"reminder":     parseReminder,
	"todozi_agent": parseAgent,
}

var tagPattern = regexp.MustCompile(`(?s)<(\w+)>(.*?)</(\w+)>`)

// expandShorthand rewrites every recognized two-letter opener (and its
// matching closer) to the canonical tag name before matching begins.
func expandShorthand(text string) string {
	for short, long := range shorthand {
		text = strings.ReplaceAll(text, "<"+short+">", "<"+long+">")
		text = strings.ReplaceAll(text, "</"+short+">", "</"+long+">")
	}
	return text
}

// Parse scans text for delimited tags in the todozi grammar and returns one
// ChatContent aggregating every well-formed record, in the order
// encountered. Unrecognized tag names are skipped; a recognized tag whose
// body fails validation is rejected individually without affecting the
// tags around it. Parse has no side effects: it is the caller's
// responsibility to persist anything it returns.
func Parse(text string) *ChatContent {
	c := &ChatContent{}
	text = expandShorthand(text)

	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		open, body, closeTag := m[1], m[2], m[3]
		if open != closeTag {
			continue
		}
		handler, ok := dispatch[open]
		if !ok {
			continue
		}
		fields := splitFields(body, minFields[open])
		handler(c, fields)
	}

	return c
}
