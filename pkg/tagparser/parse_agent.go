package tagparser

// parseAgent handles <todozi_agent>: agent_id; task_id; project_id; [label]
func parseAgent(c *ChatContent, f rawFields) {
	const tag = "todozi_agent"
	if len(f.Positional) < 3 {
		c.reject(tag, "body", "expected at least 3 positional fields: agent_id; task_id; project_id")
		return
	}

	link := &AgentLink{
		AgentID:   f.get(0),
		TaskID:    f.get(1),
		ProjectID: f.get(2),
	}
	if raw, ok := f.named("label"); ok {
		link.Label = raw
	}
	c.AgentLinks = append(c.AgentLinks, link)
}
