package tagparser

import "github.com/todozi/todozi/pkg/content"

// parseChunk handles <chunk>: id; level; description; [dependencies]; [code]
func parseChunk(c *ChatContent, f rawFields) {
	const tag = "chunk"
	if len(f.Positional) < 3 {
		c.reject(tag, "body", "expected at least 3 positional fields: id; level; description")
		return
	}

	level, ok := content.ParseChunkLevel(f.get(1))
	if !ok {
		c.reject(tag, "level", "unrecognized chunk level %q", f.get(1))
		return
	}

	ch := &content.CodeChunk{
		ID:          f.get(0),
		Level:       level,
		Description: f.get(2),
		Status:      content.ChunkPending,
	}
	if raw, ok := f.named("dependencies"); ok {
		ch.Dependencies = content.SplitTags(raw)
	}
	if raw, ok := f.named("code"); ok {
		ch.Code = raw
	}

	if err := ch.Validate(); err != nil {
		c.reject(tag, "validate", err.Error())
		return
	}
	c.Chunks = append(c.Chunks, ch)
}
