package kie

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed catalogue.schema.json
var catalogueSchema []byte

// ErrInvalidCatalogue is returned when a catalogue file fails validation.
var ErrInvalidCatalogue = errors.New("invalid catalogue")

// FieldSpec maps label patterns to the ordered key classes of the values that
// follow the label. Repeating a key ("vc_track", "vc_track") means the label
// covers several value slots of the same class.
type FieldSpec struct {
	Patterns  []string `yaml:"patterns" json:"patterns"`
	ValueKeys []string `yaml:"value_keys" json:"value_keys"`
}

// Catalogue is the ordered, versioned field table of one form layout.
type Catalogue struct {
	Version int         `yaml:"version" json:"version"`
	Name    string      `yaml:"name,omitempty" json:"name,omitempty"`
	Fields  []FieldSpec `yaml:"fields" json:"fields"`
}

// Keys returns every distinct value key in catalogue order.
func (c Catalogue) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, f := range c.Fields {
		for _, k := range f.ValueKeys {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// LoadCatalogue reads a YAML catalogue file. An empty path yields DefaultCatalogue.
func LoadCatalogue(path string) (Catalogue, error) {
	if path == "" {
		return DefaultCatalogue(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided catalogue path is expected
	if err != nil {
		return Catalogue{}, fmt.Errorf("read catalogue %s: %w", path, err)
	}
	cat, err := ParseCatalogue(data)
	if err != nil {
		return Catalogue{}, fmt.Errorf("catalogue %s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalogue decodes and validates a YAML catalogue document.
func ParseCatalogue(data []byte) (Catalogue, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalogue{}, fmt.Errorf("%w: %v", ErrInvalidCatalogue, err)
	}
	if err := validateCatalogueDoc(doc); err != nil {
		return Catalogue{}, err
	}

	var cat Catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalogue{}, fmt.Errorf("%w: %v", ErrInvalidCatalogue, err)
	}
	if cat.Version > CatalogueVersion {
		return Catalogue{}, fmt.Errorf("%w: unsupported version %d (max %d)", ErrInvalidCatalogue, cat.Version, CatalogueVersion)
	}
	return cat, nil
}

// MarshalDocument renders the catalogue as a YAML document.
func (c Catalogue) MarshalDocument() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// validateCatalogueDoc checks a decoded YAML document against the embedded
// JSON schema. The document goes through a JSON round trip so that YAML
// scalars take their JSON types.
func validateCatalogueDoc(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalogue, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalogue, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalogue.schema.json", bytes.NewReader(catalogueSchema)); err != nil {
		return fmt.Errorf("load catalogue schema: %w", err)
	}
	schema, err := compiler.Compile("catalogue.schema.json")
	if err != nil {
		return fmt.Errorf("compile catalogue schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalogue, err)
	}
	return nil
}

// CompiledSpec is a FieldSpec with its patterns normalized and compiled.
type CompiledSpec struct {
	Patterns  []*regexp.Regexp
	ValueKeys []string
}

// CompiledCatalogue is the read-only form used during a run.
type CompiledCatalogue struct {
	specs []CompiledSpec
	all   []*regexp.Regexp
}

// Compile normalizes every pattern with Normalize and compiles it.
func (c Catalogue) Compile() (*CompiledCatalogue, error) {
	cc := &CompiledCatalogue{specs: make([]CompiledSpec, 0, len(c.Fields))}
	for i, f := range c.Fields {
		if len(f.Patterns) == 0 || len(f.ValueKeys) == 0 {
			return nil, fmt.Errorf("%w: field %d needs patterns and value keys", ErrInvalidCatalogue, i)
		}
		spec := CompiledSpec{ValueKeys: append([]string(nil), f.ValueKeys...)}
		for _, p := range f.Patterns {
			re, err := regexp.Compile(Normalize(p))
			if err != nil {
				return nil, fmt.Errorf("%w: field %d pattern %q: %v", ErrInvalidCatalogue, i, p, err)
			}
			spec.Patterns = append(spec.Patterns, re)
			cc.all = append(cc.all, re)
		}
		cc.specs = append(cc.specs, spec)
	}
	return cc, nil
}

// MustCompileDefault compiles DefaultCatalogue, panicking on error.
func MustCompileDefault() *CompiledCatalogue {
	cc, err := DefaultCatalogue().Compile()
	if err != nil {
		panic(err)
	}
	return cc
}

// Specs returns the compiled field specs in catalogue order.
func (cc *CompiledCatalogue) Specs() []CompiledSpec { return cc.specs }

// AllPatterns returns the union of every spec's patterns.
func (cc *CompiledCatalogue) AllPatterns() []*regexp.Regexp { return cc.all }
