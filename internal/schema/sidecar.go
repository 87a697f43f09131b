package schema

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/blevesearch/bleve/v2/mapping"
	"gopkg.in/yaml.v3"

	muninnerrors "github.com/nyo16/muninn/errors"
)

// SidecarName is the catalogue file written inside the index directory.
// The engine's own metadata does not record integer width, so the sidecar is
// what lets Open restore u64/i64 fields with their exact kinds.
const SidecarName = "muninn_schema.yaml"

type sidecarFile struct {
	Fields []FieldSpec `yaml:"fields"`
}

// Save writes the catalogue sidecar into the index directory.
func (c *Catalogue) Save(dir string) error {
	data, err := yaml.Marshal(sidecarFile{Fields: c.Specs()})
	if err != nil {
		return muninnerrors.Wrap(muninnerrors.ErrCodeSchemaSidecar,
			"encode schema sidecar", err)
	}
	path := filepath.Join(dir, SidecarName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return muninnerrors.Wrap(muninnerrors.ErrCodeSchemaSidecar,
			"write schema sidecar "+path, err)
	}
	return nil
}

// LoadSidecar reads the catalogue back from the index directory.
// Returns os.ErrNotExist (wrapped) when no sidecar is present so callers can
// fall back to mapping reconstruction.
func LoadSidecar(dir string) (*Catalogue, error) {
	path := filepath.Join(dir, SidecarName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, muninnerrors.Wrap(muninnerrors.ErrCodeSchemaSidecar,
			"read schema sidecar "+path, err)
	}

	var file sidecarFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, muninnerrors.Wrap(muninnerrors.ErrCodeSchemaSidecar,
			"parse schema sidecar "+path, err)
	}
	return Build(file.Fields)
}

// FromMapping reconstructs a catalogue from an opened engine mapping.
// This is the degraded path for indexes created without a sidecar: the
// engine mapping records only text/number/boolean, so numeric fields come
// back as Float regardless of the width they were declared with. Field order
// is not recorded in the mapping either; names are sorted for determinism.
func FromMapping(im mapping.IndexMapping) (*Catalogue, error) {
	impl, ok := im.(*mapping.IndexMappingImpl)
	if !ok || impl.DefaultMapping == nil {
		return nil, muninnerrors.New(muninnerrors.ErrCodeSchemaSidecar,
			"index mapping does not describe its fields", nil)
	}

	names := make([]string, 0, len(impl.DefaultMapping.Properties))
	for name := range impl.DefaultMapping.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]FieldSpec, 0, len(names))
	for _, name := range names {
		prop := impl.DefaultMapping.Properties[name]
		if len(prop.Fields) == 0 {
			continue
		}
		fm := prop.Fields[0]
		spec := FieldSpec{Name: name, Stored: fm.Store, Indexed: fm.Index}
		switch fm.Type {
		case "text":
			spec.Kind = KindText
		case "boolean":
			spec.Kind = KindBoolean
		case "number":
			spec.Kind = KindFloat
		default:
			continue
		}
		specs = append(specs, spec)
	}
	return Build(specs)
}
