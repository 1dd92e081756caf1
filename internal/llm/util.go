package llm

import "strings"

// CleanJSONBlock removes markdown code fences from a model reply. Models
// often wrap JSON in ```json fences even when instructed not to, and the
// normalizer needs the bare payload.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Drop the opening fence, including an optional language tag on the same line.
	if idx := strings.Index(text, "\n"); idx >= 0 {
		first := strings.TrimPrefix(text[:idx], "```")
		if first == "" || (len(first) < 20 && !strings.ContainsAny(first, " {[")) {
			text = text[idx+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	} else {
		text = strings.TrimPrefix(text, "```")
	}

	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
