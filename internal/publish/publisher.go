// Package publish ensures a generated application, its README, and its
// license exist in the task's repository.
package publish

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/appsmith/internal/forge"
	"git.home.luguber.info/inful/appsmith/internal/task"
)

// Propagation waits for the create path. Repository creation and the branch
// established by the first write are not immediately visible to subsequent
// API calls.
const (
	repoPropagationWait   = 2 * time.Second
	branchPropagationWait = 1 * time.Second
)

const (
	artifactPath = "index.html"
	readmePath   = "README.md"
	licensePath  = "LICENSE"
)

// descriptionLimit caps the brief excerpt used as the repository description.
const descriptionLimit = 100

// Result carries the identifiers produced by a publish.
type Result struct {
	RepoURL string
	// CommitSHA is the revision of the artifact write, not of the README or
	// license writes.
	CommitSHA string
}

// Publisher writes task artifacts to a forge repository.
type Publisher struct {
	client forge.Client
	sleep  func(time.Duration)
}

// NewPublisher creates a Publisher backed by the given forge client.
func NewPublisher(client forge.Client) *Publisher {
	return &Publisher{client: client, sleep: time.Sleep}
}

// Publish drives the create or update path depending on the request round.
// Round 1 creates the repository; later rounds overwrite the artifact and
// README in the existing repository without any creation call.
func (p *Publisher) Publish(ctx context.Context, req *task.Request, html string) (*Result, error) {
	if req.Round == 1 {
		return p.create(ctx, req, html)
	}
	return p.update(ctx, req, html)
}

// create runs the round-1 path. Write order matters: the repository is
// created without auto-initialization, so the README write must come first
// to establish the default branch.
func (p *Publisher) create(ctx context.Context, req *task.Request, html string) (*Result, error) {
	repo, err := p.client.CreateRepository(ctx, req.Task, describeRepo(req.Brief))
	if err != nil {
		return nil, err
	}
	p.sleep(repoPropagationWait)

	readme := RenderReadme(req.Task, req.Brief, req.Round)
	if _, err := p.client.PutContents(ctx, req.Task, readmePath, []byte(readme), "Initial commit"); err != nil {
		return nil, err
	}
	p.sleep(branchPropagationWait)

	commitSHA, err := p.client.PutContents(ctx, req.Task, artifactPath, []byte(html), "Add generated app")
	if err != nil {
		return nil, err
	}

	if _, err := p.client.PutContents(ctx, req.Task, licensePath, []byte(mitLicense), "Add MIT license"); err != nil {
		return nil, err
	}

	return &Result{RepoURL: repo.HTMLURL, CommitSHA: commitSHA}, nil
}

// update runs the round>1 path against an already-existing repository.
func (p *Publisher) update(ctx context.Context, req *task.Request, html string) (*Result, error) {
	commitSHA, err := p.client.PutContents(ctx, req.Task, artifactPath, []byte(html),
		fmt.Sprintf("Update app for round %d", req.Round))
	if err != nil {
		return nil, err
	}

	readme := RenderReadme(req.Task, req.Brief, req.Round)
	if _, err := p.client.PutContents(ctx, req.Task, readmePath, []byte(readme),
		fmt.Sprintf("Update README for round %d", req.Round)); err != nil {
		return nil, err
	}

	return &Result{RepoURL: p.client.RepoHTMLURL(req.Task), CommitSHA: commitSHA}, nil
}

func describeRepo(brief string) string {
	if len(brief) > descriptionLimit {
		brief = brief[:descriptionLimit]
	}
	return "Auto-generated: " + brief
}
