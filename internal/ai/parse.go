package ai

import (
	"regexp"
	"strings"
)

var (
	fencedBlock   = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")
	lineComments  = regexp.MustCompile(`(?m)^\s*//.*$`)
	blockComments = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// CleanJSONLike strips the markdown fences and comments chat models tend to
// wrap around structured output, leaving something json.Unmarshal can try.
func CleanJSONLike(raw string) string {
	inner := raw
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		inner = m[1]
	}
	inner = lineComments.ReplaceAllString(inner, "")
	inner = blockComments.ReplaceAllString(inner, "")
	return strings.TrimSpace(inner)
}

// ExtractObject returns the outermost brace-delimited region of the text, or
// "" when none exists. Used as a last resort when the model surrounds its
// JSON with chatter.
func ExtractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
