package ticket

import (
	"regexp"
	"strings"
)

var (
	jsonFenceOpenRe  = regexp.MustCompile("(?i)^```json\\s*")
	jsonFenceBareRe  = regexp.MustCompile("^```\\s*")
	jsonFenceCloseRe = regexp.MustCompile("```\\s*$")
)

// RepairModelJSON strips the decoration language models habitually wrap
// around JSON output: markdown code fences and prose before or after the
// object. The returned string starts at the first '{' and ends at the last
// '}'. It does not validate the JSON itself; callers decode the result and
// treat a decode failure as a model error.
func RepairModelJSON(response string) (string, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = jsonFenceOpenRe.ReplaceAllString(cleaned, "")
	cleaned = jsonFenceBareRe.ReplaceAllString(cleaned, "")
	cleaned = jsonFenceCloseRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONObject
	}

	return cleaned[start : end+1], nil
}
