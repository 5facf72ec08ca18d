package api

import (
	"encoding/json"
	"fmt"
)

// JSONCodec lets Connect carry plain Go structs as JSON. It takes the place
// of the built-in "json" codec, which only handles protobuf messages.
type JSONCodec struct{}

func (JSONCodec) Name() string {
	return "json"
}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal() > %w", err)
	}
	return data, nil
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json.Unmarshal() > %w", err)
	}
	return nil
}
