// Package schema defines the document type definitions that govern a
// generation pass, plus the naming and escaping rules shared by every
// generated artifact.
package schema

import (
	"sort"

	"github.com/teranos/contentpack/errors"
)

// TypeDef describes one document type.
type TypeDef struct {
	// Name is unique within a schema and doubles as the per-type output
	// directory name.
	Name string `yaml:"name" json:"name"`

	// Singleton marks a type expected to have exactly one document
	// instance. Non-singleton types are collections.
	Singleton bool `yaml:"singleton,omitempty" json:"singleton,omitempty"`
}

// Schema is the set of type definitions for one generation pass.
type Schema struct {
	// DiscriminantField is the document field naming which type an
	// instance belongs to. Schema-wide, not per-type.
	DiscriminantField string `yaml:"discriminant_field" json:"discriminant_field"`

	// Types maps type name to its definition.
	Types map[string]TypeDef `yaml:"-" json:"types"`
}

// SortedTypeNames returns the schema's type names in lexical order.
// Generated output never depends on map iteration order.
func (s Schema) SortedTypeNames() []string {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the type definition for name.
func (s Schema) Lookup(name string) (TypeDef, bool) {
	def, ok := s.Types[name]
	return def, ok
}

// Validate checks the schema-level invariants: a discriminant field is
// set, every type name is a usable identifier, and the exported
// variable names derived from type names do not collide. A variable
// naming collision is fatal for every pass against this schema, so it
// is reported here rather than during planning.
func (s Schema) Validate() error {
	if s.DiscriminantField == "" {
		return errors.New("schema has no discriminant field")
	}
	if len(s.Types) == 0 {
		return errors.New("schema defines no types")
	}

	seenVars := make(map[string]string, len(s.Types))
	for _, name := range s.SortedTypeNames() {
		def := s.Types[name]
		if def.Name != name {
			return errors.Newf("type %q registered under key %q", def.Name, name)
		}
		if !IsIdentifier(name) {
			return errors.Newf("type name %q is not a valid identifier", name)
		}

		varName := VarName(def)
		if !IsIdentifier(varName) {
			return errors.Newf("type %q yields invalid variable name %q", name, varName)
		}
		if prev, ok := seenVars[varName]; ok {
			return errors.Wrapf(errors.ErrNamingCollision,
				"types %q and %q both export %q", prev, name, varName)
		}
		seenVars[varName] = name
	}
	return nil
}
