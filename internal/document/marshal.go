// Package document converts loosely-typed caller documents into the typed
// representation the engine mapping consumes.
package document

import (
	"github.com/nyo16/muninn/internal/schema"
)

// IDField is the reserved key a caller may use to choose the engine document
// ID. It is never treated as a catalogue field.
const IDField = "_id"

// Pending is the loosely-typed field-name to value mapping supplied by the
// caller. It is not retained beyond the marshalling call.
type Pending map[string]any

// Marshal builds the typed document for the engine, guided by the catalogue.
// Unknown field names are skipped. Values that do not fit the declared kind
// after the coercion fallthrough are skipped too; a skipped field is simply
// absent from the typed document, never an error. At most one value per
// field; the first acceptable coercion wins.
func Marshal(cat *schema.Catalogue, pending Pending) map[string]any {
	typed := make(map[string]any, len(pending))
	for name, value := range pending {
		if name == IDField {
			continue
		}
		def, ok := cat.Field(name)
		if !ok {
			continue
		}
		if coerced, ok := coerce(def.Kind, value); ok {
			typed[name] = coerced
		}
	}
	return typed
}

// ExtractID pulls the reserved ID value out of a pending document.
func ExtractID(pending Pending) (string, bool) {
	id, ok := pending[IDField].(string)
	return id, ok && id != ""
}

// coerce applies the per-kind coercion fallthrough. The engine stores all
// numerics as float64 internally; the projector restores the declared kind
// on the way back out.
func coerce(kind schema.FieldKind, value any) (any, bool) {
	switch kind {
	case schema.KindText:
		s, ok := value.(string)
		return s, ok

	case schema.KindUnsignedInt:
		if u, ok := asUint(value); ok {
			return float64(u), true
		}
		// A signed integer is accepted only when non-negative; a negative
		// value must never wrap to a huge unsigned one.
		if i, ok := asInt(value); ok && i >= 0 {
			return float64(i), true
		}
		return nil, false

	case schema.KindSignedInt:
		if i, ok := asInt(value); ok {
			return float64(i), true
		}
		// Unsigned values are accepted as-is; the highest bit may flip the
		// sign, which mirrors what the engine would do.
		if u, ok := asUint(value); ok {
			return float64(int64(u)), true
		}
		return nil, false

	case schema.KindFloat:
		switch v := value.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		}
		if i, ok := asInt(value); ok {
			return float64(i), true
		}
		if u, ok := asUint(value); ok {
			return float64(u), true
		}
		return nil, false

	case schema.KindBoolean:
		b, ok := value.(bool)
		return b, ok
	}
	return nil, false
}

func asInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func asUint(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	}
	return 0, false
}
