package github

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/okineadev/gitpaper/internal/changelog"
)

type searchCommitsResponse struct {
	TotalCount int `json:"total_count"`
	Items      []struct {
		Author *struct {
			Login string `json:"login"`
		} `json:"author"`
	} `json:"items"`
}

type userResponse struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// ResolveUser finds the account that authored the most recent commit with
// the given email, then fetches its display name. It returns nil when no
// account is linked to the email.
func (c *Client) ResolveUser(ctx context.Context, email string) (*changelog.Resolution, error) {
	q := url.Values{}
	q.Set("q", "author-email:"+email)
	q.Set("sort", "author-date")
	q.Set("per_page", "1")

	var search searchCommitsResponse
	if err := c.do(ctx, "GET", "/search/commits?"+q.Encode(), nil, &search); err != nil {
		return nil, err
	}
	if len(search.Items) == 0 || search.Items[0].Author == nil || search.Items[0].Author.Login == "" {
		return nil, nil
	}
	login := search.Items[0].Author.Login

	res := &changelog.Resolution{Username: login}

	var user userResponse
	if err := c.do(ctx, "GET", "/users/"+url.PathEscape(login), nil, &user); err != nil {
		// The username alone is still worth crediting.
		c.logger.Debug("user profile lookup failed", zap.String("login", login), zap.Error(err))
		return res, nil
	}
	res.Name = user.Name
	return res, nil
}

// Resolve implements changelog.Resolver.
func (c *Client) Resolve(ctx context.Context, email string) (*changelog.Resolution, error) {
	return c.ResolveUser(ctx, email)
}
