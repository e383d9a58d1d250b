package extractor

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// ParseFields decodes model output into a loose field map.
// Markdown code fences around the object are tolerated, anything
// that is not a JSON object is an error
func ParseFields(content string) (map[string]interface{}, error) {
	s := stripFences(content)
	if s == "" {
		return nil, errors.New("Empty response content")
	}
	var res map[string]interface{}
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, errors.Wrap(err, "Response is not a JSON object")
	}
	if res == nil {
		return nil, errors.New("Response is not a JSON object")
	}
	return res, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
