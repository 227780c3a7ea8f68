package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// ErrNoToken is returned by calls that need authentication.
var ErrNoToken = errors.New("github: token required")

// ReleaseOptions describes a release to create.
type ReleaseOptions struct {
	TagName         string `json:"tag_name"`
	TargetCommitish string `json:"target_commitish,omitempty"`
	Name            string `json:"name,omitempty"`
	Body            string `json:"body"`
	Draft           bool   `json:"draft"`
	Prerelease      bool   `json:"prerelease"`
}

// Release is the created release.
type Release struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	Draft   bool   `json:"draft"`
}

// CreateRelease publishes a release on owner/repo.
func (c *Client) CreateRelease(ctx context.Context, owner, repo string, opts ReleaseOptions) (*Release, error) {
	if !c.HasToken() {
		return nil, ErrNoToken
	}
	if opts.TagName == "" {
		return nil, fmt.Errorf("github: release needs a tag name")
	}

	path := fmt.Sprintf("/repos/%s/%s/releases", url.PathEscape(owner), url.PathEscape(repo))
	var rel Release
	if err := c.do(ctx, "POST", path, opts, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}
