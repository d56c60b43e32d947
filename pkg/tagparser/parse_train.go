package tagparser

import (
	"strconv"

	"github.com/todozi/todozi/pkg/content"
)

// parseTrain handles <train>: data_type; prompt; completion; context;
// [tags]; [quality]; [source]
func parseTrain(c *ChatContent, f rawFields) {
	const tag = "train"
	if len(f.Positional) < 4 {
		c.reject(tag, "body", "expected at least 4 positional fields: data_type; prompt; completion; context")
		return
	}

	dataType, ok := content.ParseTrainingDataType(f.get(0))
	if !ok {
		c.reject(tag, "data_type", "unrecognized data type %q", f.get(0))
		return
	}

	d := &content.TrainingDatum{
		DataType:   dataType,
		Prompt:     f.get(1),
		Completion: f.get(2),
		Context:    f.get(3),
	}
	if raw, ok := f.named("tags"); ok {
		d.TagList = content.SplitTags(raw)
	}
	if raw, ok := f.named("source"); ok {
		d.Source = raw
	}
	if raw, ok := f.named("quality"); ok {
		q, err := strconv.ParseFloat(raw, 64)
		if err != nil || q < 0 || q > 1 {
			c.reject(tag, "quality", "quality %q out of range [0,1]", raw)
			return
		}
		d.Quality = &q
	}

	if err := d.Validate(); err != nil {
		c.reject(tag, "validate", err.Error())
		return
	}
	c.TrainingData = append(c.TrainingData, d)
}
