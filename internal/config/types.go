package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/okineadev/gitpaper/internal/changelog"
)

// decodeTypes extracts the ordered types mapping from a raw config file.
// YAML and JSON accept the mapping or list form. TOML tables are unordered,
// so TOML only accepts the list form ([[types]]).
func decodeTypes(data []byte, ext string) (changelog.TypeOrder, error) {
	if ext == ".toml" {
		return decodeTOMLTypes(data)
	}

	var doc struct {
		Types changelog.TypeOrder `yaml:"types"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Types, nil
}

func decodeTOMLTypes(data []byte) (changelog.TypeOrder, error) {
	var probe map[string]interface{}
	if err := toml.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	raw, ok := probe["types"]
	if !ok {
		return nil, nil
	}
	if _, isTable := raw.(map[string]interface{}); isTable {
		return nil, fmt.Errorf("TOML types must be an array of tables ([[types]]) to keep their order")
	}

	var doc struct {
		Types []struct {
			Type    string `toml:"type"`
			Title   string `toml:"title"`
			Enabled *bool  `toml:"enabled"`
		} `toml:"types"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	order := make(changelog.TypeOrder, 0, len(doc.Types))
	for i, t := range doc.Types {
		if t.Type == "" {
			return nil, fmt.Errorf("types[%d] is missing 'type'", i)
		}
		order = append(order, changelog.NewTypeEntry(t.Type, t.Title, t.Enabled))
	}
	return order, nil
}
