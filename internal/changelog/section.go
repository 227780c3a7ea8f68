package changelog

import "github.com/okineadev/gitpaper/internal/commit"

// Section is one rendered group of commits sharing a type.
type Section struct {
	Type    string                `json:"type" yaml:"type"`
	Title   string                `json:"title" yaml:"title"`
	Commits []commit.ParsedCommit `json:"commits" yaml:"commits"`
}

// Result is the aggregated changelog handed to the renderer.
// Contributors is nil when the roster is disabled and a non-nil empty slice
// when it is enabled but nobody qualified. JSON keeps the two apart as null
// and [].
type Result struct {
	Sections     []Section         `json:"sections" yaml:"sections"`
	Contributors []commit.Identity `json:"contributors" yaml:"contributors"`
}

// IsEmpty reports whether no commit made it into any section.
func (r *Result) IsEmpty() bool {
	return r == nil || len(r.Sections) == 0
}

// CommitCount returns the number of commits across all sections.
func (r *Result) CommitCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, s := range r.Sections {
		n += len(s.Commits)
	}
	return n
}

// HasBreaking reports whether any listed commit is breaking.
func (r *Result) HasBreaking() bool {
	if r == nil {
		return false
	}
	for _, s := range r.Sections {
		for _, c := range s.Commits {
			if c.IsBreaking {
				return true
			}
		}
	}
	return false
}
