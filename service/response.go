package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ExtractDescription picks the description out of a provider success body.
//
// A truthy "description" string is returned as-is and any other truthy value
// is returned as its JSON text. When the field is missing or falsy the whole
// body is returned in compact JSON form and fallback is true. A null body is
// an error.
// TODO: decide whether the whole-body fallback should become a 502 once providers are pinned down.
func ExtractDescription(body []byte) (description string, fallback bool, err error) {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("invalid provider response: %w", err)
	}
	if parsed == nil {
		return "", false, errors.New("invalid provider response: body is null")
	}

	if obj, ok := parsed.(map[string]any); ok {
		switch v := obj["description"].(type) {
		case nil:
		case string:
			if v != "" {
				return v, false, nil
			}
		case bool:
			if v {
				return "true", false, nil
			}
		case float64:
			if v != 0 {
				return string(rawField(body)), false, nil
			}
		default:
			return string(rawField(body)), false, nil
		}
	}

	compacted := new(bytes.Buffer)
	if err := json.Compact(compacted, body); err != nil {
		return "", false, fmt.Errorf("invalid provider response: %w", err)
	}
	return compacted.String(), true, nil
}

// rawField returns the compact JSON text of the description field, keeping the provider's key order.
func rawField(body []byte) []byte {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}
	compacted := new(bytes.Buffer)
	if err := json.Compact(compacted, fields["description"]); err != nil {
		return fields["description"]
	}
	return compacted.Bytes()
}
