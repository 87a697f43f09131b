package search

import (
	"github.com/nyo16/muninn/internal/schema"
)

// projectDocument converts the engine's stored fields into the caller's
// loosely-typed mapping, in catalogue registration order. Only the first
// value of a field is taken; the engine stores numerics as float64, so the
// catalogue-declared kind is restored on the way out.
func projectDocument(cat *schema.Catalogue, stored map[string]interface{}) map[string]any {
	out := make(map[string]any, len(stored))
	for _, def := range cat.Fields() {
		raw, ok := stored[def.Name]
		if !ok {
			continue
		}
		if values, multi := raw.([]interface{}); multi {
			if len(values) == 0 {
				continue
			}
			raw = values[0]
		}

		switch def.Kind {
		case schema.KindText:
			if s, ok := raw.(string); ok {
				out[def.Name] = s
			}
		case schema.KindBoolean:
			if b, ok := raw.(bool); ok {
				out[def.Name] = b
			}
		case schema.KindUnsignedInt:
			if f, ok := raw.(float64); ok {
				out[def.Name] = uint64(f)
			}
		case schema.KindSignedInt:
			if f, ok := raw.(float64); ok {
				out[def.Name] = int64(f)
			}
		case schema.KindFloat:
			if f, ok := raw.(float64); ok {
				out[def.Name] = f
			}
		}
	}
	return out
}
