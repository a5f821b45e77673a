package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeList unwraps the three shapes the upstream uses for list responses:
// a bare JSON array, {"$values": [...]}, and {"items": {"$values": [...]}}.
// v must be a pointer to a slice. Anything else is a fetch error.
func decodeList(data []byte, v interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ErrBadShape
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, v); err != nil {
			return fmt.Errorf("%w: %v", ErrBadShape, err)
		}
		return nil
	}

	var envelope struct {
		Values json.RawMessage `json:"$values"`
		Items  *struct {
			Values json.RawMessage `json:"$values"`
		} `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrBadShape, err)
	}

	raw := envelope.Values
	if raw == nil && envelope.Items != nil {
		raw = envelope.Items.Values
	}
	if raw == nil {
		return ErrBadShape
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	return nil
}
