package tagparser

import "github.com/todozi/todozi/pkg/content"

// parseMemory handles <memory>: type; moment; meaning; reason; importance;
// term; [tags]
func parseMemory(c *ChatContent, f rawFields) {
	const tag = "memory"
	if len(f.Positional) < 6 {
		c.reject(tag, "body", "expected at least 6 positional fields: type; moment; meaning; reason; importance; term")
		return
	}

	variant, ok := parseMemoryVariant(f.get(0))
	if !ok {
		c.reject(tag, "type", "unrecognized memory type %q", f.get(0))
		return
	}
	importance, ok := content.ParseMemoryImportance(f.get(4))
	if !ok {
		c.reject(tag, "importance", "unrecognized importance %q", f.get(4))
		return
	}
	term, ok := parseMemoryTerm(f.get(5))
	if !ok {
		c.reject(tag, "term", "unrecognized term %q", f.get(5))
		return
	}
	// `type` may itself carry the term as shorthand ("short"/"long"),
	// overriding the later positional `term` field.
	if f.get(0) == "short" || f.get(0) == "long" {
		term = content.MemoryTerm(f.get(0))
	}

	m := &content.Memory{
		Moment:     f.get(1),
		Meaning:    f.get(2),
		Reason:     f.get(3),
		Importance: importance,
		Term:       term,
		Variant:    variant,
	}
	if raw, ok := f.named("tags"); ok {
		m.TagList = content.SplitTags(raw)
	}

	if err := m.Validate(); err != nil {
		c.reject(tag, "validate", err.Error())
		return
	}
	c.Memories = append(c.Memories, m)
}

// parseMemoryVariant dispatches the memory `type` field: standard, secret,
// human and short/long set the corresponding variant kind or term; any of
// the twenty emotion labels yields Emotional(emotion).
func parseMemoryVariant(s string) (content.MemoryVariant, bool) {
	switch s {
	case "standard":
		return content.MemoryVariant{Kind: content.VariantStandard}, true
	case "secret":
		return content.MemoryVariant{Kind: content.VariantSecret}, true
	case "human":
		return content.MemoryVariant{Kind: content.VariantHuman}, true
	case "short", "long":
		return content.MemoryVariant{Kind: content.VariantStandard}, true
	}
	if e, ok := content.ParseEmotion(s); ok {
		return content.MemoryVariant{Kind: content.VariantEmotional, Emotion: e}, true
	}
	return content.MemoryVariant{}, false
}

func parseMemoryTerm(s string) (content.MemoryTerm, bool) {
	switch content.MemoryTerm(s) {
	case content.TermShort, content.TermLong:
		return content.MemoryTerm(s), true
	}
	return "", false
}
