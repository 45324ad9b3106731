package world

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Alias is a tool's alternative name. A single string is stored as a string
// property and a list as a list, matching what the document wrote.
type Alias struct {
	Names  Names
	Scalar bool
}

func (a *Alias) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	a.Scalar = strings.HasPrefix(s, `"`)
	return a.Names.UnmarshalJSON(b)
}

func (a *Alias) UnmarshalYAML(value *yaml.Node) error {
	a.Scalar = value.Kind == yaml.ScalarNode
	return a.Names.UnmarshalYAML(value)
}

// Value is the property value, or nil when the alias is unset.
func (a Alias) Value() any {
	switch {
	case len(a.Names) == 0:
		return nil
	case a.Scalar:
		return a.Names[0]
	default:
		return append([]string(nil), a.Names...)
	}
}
