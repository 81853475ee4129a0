package advisor

import (
	"encoding/json"
	"strings"
)

// Extract splits a model reply on delimiter and parses the fenced segment as
// JSON. On success it returns the reply with the fence removed (the text
// before and after, each trimmed, concatenated) and the decoded payload.
// When the delimiter does not appear twice, or the fenced segment is not
// valid JSON, the reply is returned unchanged with a nil payload.
// A fenced array or scalar is valid JSON, so the fence is still removed,
// but only object payloads are surfaced; anything else yields nil.
func Extract(raw, delimiter string) (string, map[string]any) {
	parts := strings.Split(raw, delimiter)
	if len(parts) < 3 {
		return raw, nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(strings.TrimSpace(parts[1])), &decoded); err != nil {
		return raw, nil
	}

	payload, _ := decoded.(map[string]any)
	return strings.TrimSpace(parts[0]) + strings.TrimSpace(parts[2]), payload
}
