// Package forge talks to the GitHub REST API: repository creation, per-path
// content writes with optimistic sha matching, and Pages enablement.
package forge

import "context"

// Repository describes a remote repository as returned by the forge.
type Repository struct {
	Name          string
	FullName      string
	HTMLURL       string
	DefaultBranch string
	Private       bool
}

// Client is the forge surface the publisher depends on. *GitHubClient is the
// production implementation; tests substitute fakes.
type Client interface {
	CreateRepository(ctx context.Context, name, description string) (*Repository, error)
	PutContents(ctx context.Context, repo, path string, content []byte, message string) (commitSHA string, err error)
	EnablePages(ctx context.Context, repo string) error
	RepoHTMLURL(repo string) string
	PagesURL(repo string) string
}
