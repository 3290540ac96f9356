package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Apply decodes dotted-key overrides (e.g. "catalog.backend": "sqlite") onto c.
// Values are weakly typed, so flag strings like "3" or "10s" decode into ints
// and durations. A list override replaces the whole list.
func (c *Config) Apply(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       true,
		Result:           c,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(nest(overrides)); err != nil {
		return fmt.Errorf("apply overrides: %w", err)
	}
	return nil
}

// nest turns {"a.b": v} into {"a": {"b": v}}.
func nest(flat map[string]any) map[string]any {
	out := map[string]any{}
	for key, val := range flat {
		parts := strings.Split(key, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				m[p] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = val
	}
	return out
}
