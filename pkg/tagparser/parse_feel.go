package tagparser

import (
	"strconv"

	"github.com/todozi/todozi/pkg/content"
)

// parseFeel handles <feel>: emotion; intensity(1-10); description;
// [context]; [tags]
func parseFeel(c *ChatContent, f rawFields) {
	const tag = "feel"
	if len(f.Positional) < 3 {
		c.reject(tag, "body", "expected at least 3 positional fields: emotion; intensity; description")
		return
	}

	emotion, ok := content.ParseEmotion(f.get(0))
	if !ok {
		c.reject(tag, "emotion", "unrecognized emotion %q", f.get(0))
		return
	}
	intensity, err := strconv.Atoi(f.get(1))
	if err != nil || intensity < 1 || intensity > 10 {
		c.reject(tag, "intensity", "intensity %q out of range [1,10]", f.get(1))
		return
	}

	feeling := &Feeling{
		Emotion:     emotion,
		Intensity:   intensity,
		Description: f.get(2),
	}
	if raw, ok := f.named("context"); ok {
		feeling.Context = raw
	}
	if raw, ok := f.named("tags"); ok {
		feeling.Tags = content.SplitTags(raw)
	}
	c.Feelings = append(c.Feelings, feeling)
}
