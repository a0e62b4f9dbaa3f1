package entity

import (
	"encoding/json"
	"strings"

	"account-service/internal/domain/exception"
)

// jsonInput normalizes the values accepted by FromJSON. It returns raw JSON for
// objects, or the id when v is a bare identifier. Both are empty for nil.
func jsonInput(v any) ([]byte, string, error) {
	switch t := v.(type) {
	case nil:
		return nil, "", nil
	case string:
		return jsonText(t)
	case []byte:
		return jsonText(string(t))
	case json.RawMessage:
		return jsonText(string(t))
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return nil, "", exception.NewValidationException("Invalid JSON payload!", err.Error())
		}
		if string(raw) == "null" {
			return nil, "", nil
		}
		return raw, "", nil
	}
}

func jsonText(s string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "null" {
		return nil, "", nil
	}
	if strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), "", nil
	}
	var quoted string
	if err := json.Unmarshal([]byte(trimmed), &quoted); err == nil {
		return nil, quoted, nil
	}
	return nil, trimmed, nil
}

func unmarshal(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return exception.NewValidationException("Invalid JSON payload!", err.Error())
	}
	return nil
}
