package tagparser

import "github.com/todozi/todozi/pkg/content"

// parseError handles <error>: title; description; severity; category;
// source; [context]; [tags]
func parseError(c *ChatContent, f rawFields) {
	const tag = "error"
	if len(f.Positional) < 5 {
		c.reject(tag, "body", "expected at least 5 positional fields: title; description; severity; category; source")
		return
	}

	severity, ok := content.ParseSeverity(f.get(2))
	if !ok {
		c.reject(tag, "severity", "unrecognized severity %q", f.get(2))
		return
	}
	category, ok := content.ParseErrorCategory(f.get(3))
	if !ok {
		c.reject(tag, "category", "unrecognized category %q", f.get(3))
		return
	}

	e := &content.ErrorRecord{
		Title:       f.get(0),
		Description: f.get(1),
		Severity:    severity,
		Category:    category,
		Source:      f.get(4),
	}
	if raw, ok := f.named("context"); ok {
		e.Context = raw
	}
	if raw, ok := f.named("tags"); ok {
		e.TagList = content.SplitTags(raw)
	}

	if err := e.Validate(); err != nil {
		c.reject(tag, "validate", err.Error())
		return
	}
	c.ErrorRecords = append(c.ErrorRecords, e)
}
