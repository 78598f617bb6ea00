// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/clone.go
// Summary: Clone helpers for config maps.

package config

// Clone returns a copy of cfg. Sections are copied one level deep; nested
// maps and slices inside a section are copied recursively so the clone can
// be edited without touching the original.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	out := make(Config, len(cfg))
	for name, value := range cfg {
		out[name] = cloneValue(value)
	}
	return out
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case Section:
		out := make(Section, len(v))
		for key, inner := range v {
			out[key] = cloneValue(inner)
		}
		return out
	case map[string]interface{}:
		out := make(Section, len(v))
		for key, inner := range v {
			out[key] = cloneValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, inner := range v {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}
