package models

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrValueTooLong is returned for input longer than a field's max_length.
var ErrValueTooLong = errors.New("value exceeds maximum length")

// FieldDef describes how a field is presented, matching the YAML structure.
type FieldDef struct {
	ID           Field  `yaml:"id"`
	Section      string `yaml:"section"`
	Icon         string `yaml:"icon"`
	Placeholder  string `yaml:"placeholder"`
	Info         string `yaml:"info"`
	Type         string `yaml:"type"`
	Autocomplete string `yaml:"autocomplete"`
	Required     bool   `yaml:"required"`
	MaxLength    int    `yaml:"max_length,omitempty"`
}

// Section groups fields under a heading.
type Section struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Icon  string `yaml:"icon"`
}

// FieldSet holds the presentation metadata for the whole form.
type FieldSet struct {
	Sections []Section  `yaml:"sections"`
	Fields   []FieldDef `yaml:"fields"`

	byID map[Field]FieldDef
}

// LoadFieldSet reads and parses the fields.yaml file.
func LoadFieldSet(path string) (*FieldSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field definitions: %w", err)
	}
	return ParseFieldSet(data)
}

// ParseFieldSet decodes field definitions and checks they cover every form
// field exactly once.
func ParseFieldSet(data []byte) (*FieldSet, error) {
	var set FieldSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal field definitions YAML: %w", err)
	}

	sections := make(map[string]bool, len(set.Sections))
	for _, s := range set.Sections {
		sections[s.ID] = true
	}

	set.byID = make(map[Field]FieldDef, len(set.Fields))
	for i, def := range set.Fields {
		if _, err := ParseField(string(def.ID)); err != nil {
			return nil, fmt.Errorf("field definition %q: %w", def.ID, err)
		}
		if _, dup := set.byID[def.ID]; dup {
			return nil, fmt.Errorf("field %q defined twice", def.ID)
		}
		if !sections[def.Section] {
			return nil, fmt.Errorf("field %q references unknown section %q", def.ID, def.Section)
		}
		if def.Type == "" {
			set.Fields[i].Type = "text"
			def.Type = "text"
		}
		set.byID[def.ID] = def
	}
	for _, f := range Fields {
		if _, ok := set.byID[f]; !ok {
			return nil, fmt.Errorf("field %q has no definition", f)
		}
	}
	return &set, nil
}

// Def returns the definition for field.
func (s *FieldSet) Def(field Field) (FieldDef, bool) {
	def, ok := s.byID[field]
	return def, ok
}

// InSection returns the definitions that belong to section, in file order.
func (s *FieldSet) InSection(section string) []FieldDef {
	var defs []FieldDef
	for _, def := range s.Fields {
		if def.Section == section {
			defs = append(defs, def)
		}
	}
	return defs
}

// CheckLength rejects values with more characters than MaxLength. A zero
// MaxLength means unlimited.
func (d FieldDef) CheckLength(value string) error {
	if d.MaxLength > 0 && utf8.RuneCountInString(value) > d.MaxLength {
		return fmt.Errorf("%s: %w (%d characters)", d.ID, ErrValueTooLong, d.MaxLength)
	}
	return nil
}
