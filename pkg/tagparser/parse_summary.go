package tagparser

import "github.com/todozi/todozi/pkg/content"

// parseSummary handles <summary>: content; priority; [context]; [tags]
func parseSummary(c *ChatContent, f rawFields) {
	const tag = "summary"
	if len(f.Positional) < 2 {
		c.reject(tag, "body", "expected at least 2 positional fields: content; priority")
		return
	}

	priority, ok := content.ParsePriority(f.get(1))
	if !ok {
		c.reject(tag, "priority", "unrecognized priority %q", f.get(1))
		return
	}

	s := &Summary{
		Content:  f.get(0),
		Priority: priority,
	}
	if raw, ok := f.named("context"); ok {
		s.Context = raw
	}
	if raw, ok := f.named("tags"); ok {
		s.Tags = content.SplitTags(raw)
	}
	c.Summaries = append(c.Summaries, s)
}
