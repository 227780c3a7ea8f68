// Package render turns an aggregated changelog into release notes: markdown
// for release bodies and CHANGELOG files, a colored terminal preview, and
// JSON/YAML for tooling.
package render

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/okineadev/gitpaper/internal/changelog"
	"github.com/okineadev/gitpaper/internal/commit"
)

// DefaultServerURL is the web root used for compare, commit and profile links.
const DefaultServerURL = "https://github.com"

//go:embed templates/changelog.md.tmpl
var markdownTemplate string

// Data is everything a renderer needs besides the aggregated result.
type Data struct {
	Result *changelog.Result
	// Repo is "owner/name". Empty disables links.
	Repo string
	// From and To label the compared range.
	From, To string
	// Emoji keeps the leading emoji of section titles.
	Emoji bool
	// Contributors enables the contributors section.
	Contributors bool
	// Overview is an optional summary rendered above the sections.
	Overview string
	// ServerURL defaults to DefaultServerURL.
	ServerURL string
}

func (d Data) serverURL() string {
	if d.ServerURL == "" {
		return DefaultServerURL
	}
	return strings.TrimRight(d.ServerURL, "/")
}

func (d Data) repoURL() string {
	if d.Repo == "" {
		return ""
	}
	return d.serverURL() + "/" + d.Repo
}

// CompareURL returns the compare link for the range, or "" without a repo.
func (d Data) CompareURL() string {
	if d.repoURL() == "" || d.From == "" || d.To == "" {
		return ""
	}
	return fmt.Sprintf("%s/compare/%s...%s", d.repoURL(), d.From, d.To)
}

type markdownView struct {
	Overview     string
	CompareURL   string
	Sections     []changelog.Section
	Contributors []commit.Identity
}

// Markdown writes the release notes for d to w.
func Markdown(w io.Writer, d Data) error {
	tmpl, err := template.New("changelog").Funcs(funcMap(d)).Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("parsing changelog template: %w", err)
	}

	view := markdownView{
		Overview:   strings.TrimSpace(d.Overview),
		CompareURL: d.CompareURL(),
	}
	if d.Result != nil {
		view.Sections = d.Result.Sections
		if d.Contributors {
			view.Contributors = d.Result.Contributors
		}
	}

	if err := tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("rendering changelog: %w", err)
	}
	return nil
}

// MarkdownString renders to a string.
func MarkdownString(d Data) (string, error) {
	var b strings.Builder
	if err := Markdown(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}
