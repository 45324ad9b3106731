package world

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Names holds a relationship or alias field. Documents write it as a single
// string, a list of strings, or null. Entries are trimmed and deduplicated.
type Names []string

func (n *Names) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = nil
		return nil
	}
	if s[0] == '"' {
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*n = compactNames([]string{one})
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("names: expected string or list of strings: %w", err)
	}
	*n = compactNames(many)
	return nil
}

func (n *Names) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*n = nil
			return nil
		}
		*n = compactNames([]string{value.Value})
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*n = compactNames(many)
		return nil
	default:
		return fmt.Errorf("names: line %d: expected string or list of strings", value.Line)
	}
}

func compactNames(in []string) Names {
	out := make(Names, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func putString(props map[string]any, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		props[key] = val
	}
}

func putStrings(props map[string]any, key string, vals []string) {
	if len(vals) > 0 {
		props[key] = append([]string(nil), vals...)
	}
}

func putInt(props map[string]any, key string, val *int) {
	if val != nil {
		props[key] = int64(*val)
	}
}

func putFloat(props map[string]any, key string, val *float64) {
	if val != nil {
		props[key] = *val
	}
}

func putLinks(links map[RelType]Names, rel RelType, names Names) {
	if len(names) > 0 {
		links[rel] = names
	}
}
