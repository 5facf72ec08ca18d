package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Codec encodes stored values. UnmarshalEntries and UnmarshalItems decode a
// mapping or a sequence one element at a time so that a broken element does
// not spoil its neighbours.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	UnmarshalEntries(data []byte, fn func(key string, decode func(v any) error)) error
	UnmarshalItems(data []byte, fn func(index int, decode func(v any) error)) error
}

type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json.Unmarshal() > %w", err)
	}
	return nil
}

func (JSONCodec) UnmarshalEntries(data []byte, fn func(key string, decode func(v any) error)) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("json.Unmarshal() > %w", err)
	}
	for _, key := range sortedKeys(raw) {
		message := raw[key]
		fn(key, func(v any) error {
			return json.Unmarshal(message, v)
		})
	}
	return nil
}

func (JSONCodec) UnmarshalItems(data []byte, fn func(index int, decode func(v any) error)) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("json.Unmarshal() > %w", err)
	}
	for i, message := range raw {
		fn(i, func(v any) error {
			return json.Unmarshal(message, v)
		})
	}
	return nil
}

type YAMLCodec struct{}

func (YAMLCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAMLCodec) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yaml.Unmarshal() > %w", err)
	}
	return nil
}

func (YAMLCodec) UnmarshalEntries(data []byte, fn func(key string, decode func(v any) error)) error {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("yaml.Unmarshal() > %w", err)
	}
	for _, key := range sortedKeys(raw) {
		node := raw[key]
		fn(key, node.Decode)
	}
	return nil
}

func (YAMLCodec) UnmarshalItems(data []byte, fn func(index int, decode func(v any) error)) error {
	var raw []yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("yaml.Unmarshal() > %w", err)
	}
	for i := range raw {
		fn(i, raw[i].Decode)
	}
	return nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
