package changelog

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// knownTitles are the section titles used when a type is enabled with `true`.
var knownTitles = map[string]string{
	"feat":     "🚀 Enhancements",
	"perf":     "⚡ Performance",
	"fix":      "🩹 Fixes",
	"refactor": "💅 Refactors",
	"docs":     "📖 Documentation",
	"build":    "📦 Build",
	"types":    "🌊 Types",
	"chore":    "🏡 Chores",
	"examples": "🏀 Examples",
	"test":     "✅ Tests",
	"style":    "🎨 Styles",
	"ci":       "🤖 CI",
}

// TypeEntry maps one commit type to its section title.
type TypeEntry struct {
	Type    string `json:"type" yaml:"type"`
	Title   string `json:"title" yaml:"title"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// TypeOrder is the ordered type mapping. Section order follows slice order.
type TypeOrder []TypeEntry

// DefaultTypes returns the built-in type mapping.
func DefaultTypes() TypeOrder {
	return TypeOrder{
		{Type: "feat", Title: knownTitles["feat"], Enabled: true},
		{Type: "perf", Title: knownTitles["perf"], Enabled: true},
		{Type: "fix", Title: knownTitles["fix"], Enabled: true},
		{Type: "types", Title: knownTitles["types"], Enabled: true},
	}
}

// DefaultTitle returns the built-in title for a type, or the type itself.
func DefaultTitle(typ string) string {
	if title, ok := knownTitles[typ]; ok {
		return title
	}
	return typ
}

// Lookup returns the entry for typ.
func (o TypeOrder) Lookup(typ string) (TypeEntry, bool) {
	for _, e := range o {
		if e.Type == typ {
			return e, true
		}
	}
	return TypeEntry{}, false
}

// Enabled returns the enabled entries in order.
func (o TypeOrder) Enabled() TypeOrder {
	enabled := make(TypeOrder, 0, len(o))
	for _, e := range o {
		if e.Enabled {
			enabled = append(enabled, e)
		}
	}
	return enabled
}

// Merge overlays o onto base. Types already in base keep their position and
// take o's value; new types from o are appended in o's order. Enabled entries
// without a title fall back to base's title, then to DefaultTitle.
func (o TypeOrder) Merge(base TypeOrder) TypeOrder {
	merged := make(TypeOrder, 0, len(base)+len(o))
	overlay := make(map[string]TypeEntry, len(o))
	for _, e := range o {
		overlay[e.Type] = e
	}

	seen := make(map[string]bool, len(base))
	for _, b := range base {
		seen[b.Type] = true
		if e, ok := overlay[b.Type]; ok {
			if e.Enabled && e.Title == "" {
				e.Title = b.Title
			}
			merged = append(merged, withTitle(e))
			continue
		}
		merged = append(merged, withTitle(b))
	}

	for _, e := range o {
		if seen[e.Type] {
			continue
		}
		seen[e.Type] = true
		merged = append(merged, withTitle(e))
	}

	return merged
}

func withTitle(e TypeEntry) TypeEntry {
	if e.Enabled && e.Title == "" {
		e.Title = DefaultTitle(e.Type)
	}
	return e
}

// UnmarshalYAML accepts either an ordered mapping
//
//	feat: "🚀 Enhancements"
//	perf: true
//	docs: false
//
// or a sequence of {type, title, enabled} objects. Falsy values ("", false,
// null) disable the type. JSON documents decode through the same path.
func (o *TypeOrder) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		return o.decodeMapping(node)
	case yaml.SequenceNode:
		return o.decodeSequence(node)
	default:
		return fmt.Errorf("line %d: types must be a mapping or a list", node.Line)
	}
}

func (o *TypeOrder) decodeMapping(node *yaml.Node) error {
	entries := make(TypeOrder, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		entry, err := entryFromScalar(key.Value, value)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	*o = entries
	return nil
}

func entryFromScalar(typ string, value *yaml.Node) (TypeEntry, error) {
	if value.Kind != yaml.ScalarNode {
		return TypeEntry{}, fmt.Errorf("line %d: type %q must map to a title or a boolean", value.Line, typ)
	}

	switch value.Tag {
	case "!!bool":
		enabled, err := strconv.ParseBool(value.Value)
		if err != nil {
			return TypeEntry{}, fmt.Errorf("line %d: type %q: %w", value.Line, typ, err)
		}
		return TypeEntry{Type: typ, Enabled: enabled}, nil
	case "!!null":
		return TypeEntry{Type: typ}, nil
	default:
		return TypeEntry{Type: typ, Title: value.Value, Enabled: value.Value != ""}, nil
	}
}

func (o *TypeOrder) decodeSequence(node *yaml.Node) error {
	entries := make(TypeOrder, 0, len(node.Content))
	for _, item := range node.Content {
		var raw struct {
			Type    string `yaml:"type"`
			Title   string `yaml:"title"`
			Enabled *bool  `yaml:"enabled"`
		}
		if err := item.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
		if raw.Type == "" {
			return fmt.Errorf("line %d: type entry is missing 'type'", item.Line)
		}
		entries = append(entries, NewTypeEntry(raw.Type, raw.Title, raw.Enabled))
	}
	*o = entries
	return nil
}

// NewTypeEntry builds an entry from the list form, where an omitted
// enabled flag means enabled.
func NewTypeEntry(typ, title string, enabled *bool) TypeEntry {
	on := enabled == nil || *enabled
	return TypeEntry{Type: typ, Title: title, Enabled: on}
}
