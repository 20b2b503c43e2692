package forge

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/appsmith/internal/version"
)

// GitHubClient implements Client against the GitHub REST API.
type GitHubClient struct {
	httpClient *http.Client
	apiURL     string
	baseURL    string
	owner      string
	token      string
}

// NewGitHubClient creates a new GitHub client for the given account. apiURL
// and baseURL may be empty for the public endpoints.
func NewGitHubClient(token, owner, apiURL, baseURL string) (*GitHubClient, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub client requires token authentication")
	}
	if owner == "" {
		return nil, fmt.Errorf("GitHub client requires an owner account")
	}

	client := &GitHubClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     apiURL,
		baseURL:    baseURL,
		owner:      owner,
		token:      token,
	}

	// Set default URLs if not provided
	if client.apiURL == "" {
		client.apiURL = "https://api.github.com"
	}
	if client.baseURL == "" {
		client.baseURL = "https://github.com"
	}

	return client, nil
}

// githubRepo represents a GitHub repository
type githubRepo struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

// githubContent is the relevant slice of a contents API response.
type githubContent struct {
	SHA    string `json:"sha"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// CreateRepository creates a new repository without auto-initialization.
// Creation must precede any content write; the first write establishes the
// default branch. Fails if the repository already exists.
func (c *GitHubClient) CreateRepository(ctx context.Context, name, description string) (*Repository, error) {
	payload := map[string]any{
		"name":        name,
		"description": description,
		"private":     false,
		"auto_init":   false,
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/user/repos", payload)
	if err != nil {
		return nil, err
	}

	var repo githubRepo
	if err := c.doRequest(req, &repo); err != nil {
		return nil, fmt.Errorf("create repository %s: %w", name, err)
	}

	return &Repository{
		Name:          repo.Name,
		FullName:      repo.FullName,
		HTMLURL:       repo.HTMLURL,
		DefaultBranch: repo.DefaultBranch,
		Private:       repo.Private,
	}, nil
}

// getContentSHA returns the blob sha of an existing file, or found=false when
// the path does not exist yet.
func (c *GitHubClient) getContentSHA(ctx context.Context, repo, path string) (sha string, found bool, err error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, repo, path)
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("get contents %s: unexpected status %s", path, resp.Status)
	}

	var content githubContent
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return "", false, err
	}
	return content.SHA, true, nil
}

// PutContents creates or overwrites a file and returns the sha of the
// resulting commit. When the file already exists its current blob sha is
// submitted with the write so concurrent edits are not silently clobbered;
// absence falls back to plain creation.
func (c *GitHubClient) PutContents(ctx context.Context, repo, path string, content []byte, message string) (string, error) {
	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}

	sha, found, err := c.getContentSHA(ctx, repo, path)
	if err != nil {
		return "", fmt.Errorf("put contents %s: %w", path, err)
	}
	if found {
		payload["sha"] = sha
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, repo, path)
	req, err := c.newRequest(ctx, http.MethodPut, endpoint, payload)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("put contents %s: %s: %s", path, resp.Status, strings.TrimSpace(string(detail)))
	}

	var result githubContent
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Commit.SHA, nil
}

// EnablePages requests static-site serving from the default branch root.
// 201 means freshly enabled and 409 means already enabled; both are success.
func (c *GitHubClient) EnablePages(ctx context.Context, repo string) error {
	payload := map[string]any{
		"source": map[string]any{
			"branch": "main",
			"path":   "/",
		},
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/pages", c.owner, repo)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("enable pages for %s: unexpected status %s", repo, resp.Status)
	}
	return nil
}

// RepoHTMLURL returns the browsable URL for a repository.
func (c *GitHubClient) RepoHTMLURL(repo string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.owner, repo)
}

// PagesURL returns the public Pages URL for a repository.
func (c *GitHubClient) PagesURL(repo string) string {
	return fmt.Sprintf("https://%s.github.io/%s/", c.owner, repo)
}

// Helper methods

func (c *GitHubClient) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	u, err := url.Parse(c.apiURL + endpoint)
	if err != nil {
		return nil, err
	}

	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req, err = http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(string(jsonBody)))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		var err error
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
		if err != nil {
			return nil, err
		}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "Appsmith/"+version.Version)

	return req, nil
}

func (c *GitHubClient) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GitHub API error: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}
