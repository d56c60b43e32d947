package tagparser

import "github.com/todozi/todozi/pkg/content"

// parseIdea handles <idea>: text; share; importance; [tags]; [context]
func parseIdea(c *ChatContent, f rawFields) {
	const tag = "idea"
	if len(f.Positional) < 3 {
		c.reject(tag, "body", "expected at least 3 positional fields: text; share; importance")
		return
	}

	share, ok := content.ParseShareLevel(f.get(1))
	if !ok {
		c.reject(tag, "share", "unrecognized share level %q", f.get(1))
		return
	}
	importance, ok := content.ParseIdeaImportance(f.get(2))
	if !ok {
		c.reject(tag, "importance", "unrecognized importance %q", f.get(2))
		return
	}

	i := &content.Idea{
		Text:       f.get(0),
		ShareLevel: share,
		Importance: importance,
	}
	if raw, ok := f.named("tags"); ok {
		i.TagList = content.SplitTags(raw)
	}
	if raw, ok := f.named("context"); ok {
		i.Context = raw
	}

	if err := i.Validate(); err != nil {
		c.reject(tag, "validate", err.Error())
		return
	}
	c.Ideas = append(c.Ideas, i)
}
