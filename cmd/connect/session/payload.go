package session

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parsePayload turns a console line into a subscribe payload. A bare
// word is shorthand for {"type": <word>}; a word followed by a JSON
// object merges the object into the shorthand; a full JSON object is
// passed through.
func parsePayload(line string) (map[string]interface{}, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "{") {
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		return payload, nil
	}

	word := line
	rest := ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		word, rest = line[:i], strings.TrimSpace(line[i+1:])
	}
	payload := map[string]interface{}{"type": word}
	if rest != "" {
		var extra map[string]interface{}
		if err := json.Unmarshal([]byte(rest), &extra); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		for k, v := range extra {
			payload[k] = v
		}
	}
	return payload, nil
}
