package element

import (
	"fmt"

	"github.com/c360studio/clarity/xmldoc"
)

// FieldSet is the ordered list of declared fields for an entity type,
// aggregated across the type and anything it builds on. It turns
// descriptor-backed fields into whole-object maps for batch serialization
// and back.
type FieldSet struct {
	fields []Field
}

// NewFieldSet builds a field set. Extend prepends inherited fields.
func NewFieldSet(fields ...Field) *FieldSet {
	return &FieldSet{fields: fields}
}

// Extend returns a new set with additional fields appended, for entity
// types that build on a base declaration.
func (s *FieldSet) Extend(fields ...Field) *FieldSet {
	combined := make([]Field, 0, len(s.fields)+len(fields))
	combined = append(combined, s.fields...)
	combined = append(combined, fields...)
	return &FieldSet{fields: combined}
}

// Fields returns the declared fields in order.
func (s *FieldSet) Fields() []Field { return s.fields }

// ByName returns the declared field with the given name, or nil.
func (s *FieldSet) ByName(name string) Field {
	for _, f := range s.fields {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// ToMap produces a map from field name to current value for every declared
// field. A field that errors on access is treated as absent and omitted
// rather than failing the whole map: partial payload construction for batch
// writes must not be derailed by one unset field.
func (s *FieldSet) ToMap(root *xmldoc.Node) map[string]any {
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		v, err := f.Get(root)
		if err != nil {
			continue
		}
		out[f.Name()] = v
	}
	return out
}

// ApplyMap writes each entry through its field's write path. Values keyed
// by an undeclared name or targeting a read-only field fail immediately.
// Application order is irrelevant: no field's write depends on another
// field's current value.
func (s *FieldSet) ApplyMap(root *xmldoc.Node, values map[string]any) error {
	for name, value := range values {
		f := s.ByName(name)
		if f == nil {
			return fmt.Errorf("no declared field %q", name)
		}
		if value == nil {
			continue
		}
		if err := f.Set(root, value); err != nil {
			return err
		}
	}
	return nil
}
