package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/okineadev/gitpaper/internal/changelog"
	"github.com/okineadev/gitpaper/internal/commit"
)

// Document is the machine-readable form of a changelog. Contributors is left
// out when the roster is disabled and is an empty list when it is enabled
// but nobody qualified.
type Document struct {
	Repo         string              `json:"repo,omitempty" yaml:"repo,omitempty"`
	From         string              `json:"from,omitempty" yaml:"from,omitempty"`
	To           string              `json:"to,omitempty" yaml:"to,omitempty"`
	CompareURL   string              `json:"compare_url,omitempty" yaml:"compare_url,omitempty"`
	Overview     string              `json:"overview,omitempty" yaml:"overview,omitempty"`
	Breaking     bool                `json:"breaking" yaml:"breaking"`
	Sections     []changelog.Section `json:"sections" yaml:"sections"`
	Contributors *[]commit.Identity  `json:"contributors,omitempty" yaml:"contributors,omitempty"`
}

// NewDocument builds the document for d.
func NewDocument(d Data) Document {
	doc := Document{
		Repo:       d.Repo,
		From:       d.From,
		To:         d.To,
		CompareURL: d.CompareURL(),
		Overview:   d.Overview,
		Sections:   []changelog.Section{},
	}
	if d.Result != nil {
		doc.Breaking = d.Result.HasBreaking()
		if d.Result.Sections != nil {
			doc.Sections = d.Result.Sections
		}
	}
	if d.Contributors {
		contributors := []commit.Identity{}
		if d.Result != nil && d.Result.Contributors != nil {
			contributors = d.Result.Contributors
		}
		doc.Contributors = &contributors
	}
	return doc
}

// JSON writes d as indented JSON.
func JSON(w io.Writer, d Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewDocument(d)); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// YAML writes d as YAML.
func YAML(w io.Writer, d Data) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(d)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
