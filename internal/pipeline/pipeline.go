// Package pipeline runs the generate, publish, pages, and notify steps for a
// build request in sequence.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/appsmith/internal/forge"
	"git.home.luguber.info/inful/appsmith/internal/history"
	"git.home.luguber.info/inful/appsmith/internal/logfields"
	"git.home.luguber.info/inful/appsmith/internal/metrics"
	"git.home.luguber.info/inful/appsmith/internal/notify"
	"git.home.luguber.info/inful/appsmith/internal/publish"
	"git.home.luguber.info/inful/appsmith/internal/task"
)

// pagesSettleWait is how long the pipeline waits after requesting Pages
// enablement before the site is expected to resolve. There is no polling for
// actual availability.
const pagesSettleWait = 5 * time.Second

// Generator produces a self-contained HTML document for a brief.
type Generator interface {
	GenerateApp(ctx context.Context, brief string, checks []string, attachments []task.Attachment) (string, error)
}

// Publisher writes the generated artifact set to the repository.
type Publisher interface {
	Publish(ctx context.Context, req *task.Request, html string) (*publish.Result, error)
}

// Notifier delivers the completion payload to the evaluation endpoint.
type Notifier interface {
	Notify(ctx context.Context, url string, payload notify.Payload) bool
}

// Result is the explicit outcome of a pipeline run. The HTTP layer only
// serializes it; step errors never propagate past Run.
type Result struct {
	OK        bool
	RepoURL   string
	PagesURL  string
	CommitSHA string
	Message   string
}

// Pipeline wires the four steps together with instrumentation and history.
type Pipeline struct {
	generator Generator
	publisher Publisher
	forge     forge.Client
	notifier  Notifier
	recorder  *metrics.Recorder
	store     *history.Store
	settle    func(time.Duration)
}

// New constructs a Pipeline. recorder and store may be nil.
func New(generator Generator, publisher Publisher, forgeClient forge.Client, notifier Notifier, recorder *metrics.Recorder, store *history.Store) *Pipeline {
	return &Pipeline{
		generator: generator,
		publisher: publisher,
		forge:     forgeClient,
		notifier:  notifier,
		recorder:  recorder,
		store:     store,
		settle:    time.Sleep,
	}
}

// Run executes the pipeline for an authorized request. Control flows strictly
// forward; each step consumes the previous step's output, so there is no
// internal parallelism. Any step failure short-circuits into a failure
// Result, except Pages enablement (warning only) and notification
// (at-most-effort by contract).
func (p *Pipeline) Run(ctx context.Context, req *task.Request) Result {
	start := time.Now()
	slog.Info("build request received", logfields.Task(req.Task), logfields.Round(req.Round))

	html, err := p.generator.GenerateApp(ctx, req.Brief, req.Checks, req.Attachments)
	if err != nil {
		p.recorder.IncStageResult(metrics.StageGenerate, metrics.ResultFailed)
		return p.finish(ctx, req, start, Result{OK: false, Message: err.Error()})
	}
	p.recorder.IncStageResult(metrics.StageGenerate, metrics.ResultSuccess)

	pub, err := p.publisher.Publish(ctx, req, html)
	if err != nil {
		p.recorder.IncStageResult(metrics.StagePublish, metrics.ResultFailed)
		return p.finish(ctx, req, start, Result{OK: false, Message: err.Error()})
	}
	p.recorder.IncStageResult(metrics.StagePublish, metrics.ResultSuccess)

	// Pages enablement happens only on the first round; once enabled it
	// stays enabled. Failure here never aborts the pipeline.
	if req.Round == 1 {
		if err := p.forge.EnablePages(ctx, req.Task); err != nil {
			p.recorder.IncStageResult(metrics.StagePages, metrics.ResultFailed)
			slog.Warn("pages enablement failed",
				logfields.Task(req.Task),
				logfields.Error(err))
		} else {
			p.recorder.IncStageResult(metrics.StagePages, metrics.ResultSuccess)
		}
		p.settle(pagesSettleWait)
	}

	pagesURL := p.forge.PagesURL(req.Task)

	p.recorder.IncNotifyAttempt()
	delivered := p.notifier.Notify(ctx, req.EvaluationURL, notify.Payload{
		Email:     req.Email,
		Task:      req.Task,
		Round:     req.Round,
		Nonce:     req.Nonce,
		RepoURL:   pub.RepoURL,
		CommitSHA: pub.CommitSHA,
		PagesURL:  pagesURL,
	})
	if delivered {
		p.recorder.IncStageResult(metrics.StageNotify, metrics.ResultSuccess)
	} else {
		p.recorder.IncStageResult(metrics.StageNotify, metrics.ResultFailed)
		p.recorder.IncNotifyExhausted()
	}

	return p.finish(ctx, req, start, Result{
		OK:        true,
		RepoURL:   pub.RepoURL,
		PagesURL:  pagesURL,
		CommitSHA: pub.CommitSHA,
	})
}

// finish records metrics, history, and the completion log line for a run.
func (p *Pipeline) finish(ctx context.Context, req *task.Request, start time.Time, res Result) Result {
	elapsed := time.Since(start)
	p.recorder.ObservePipelineDuration(elapsed)

	status := "success"
	outcome := metrics.ResultSuccess
	if !res.OK {
		status = "error"
		outcome = metrics.ResultFailed
	}
	p.recorder.IncRequest(outcome)

	if p.store != nil {
		rec := history.Record{
			ID:        uuid.NewString(),
			Task:      req.Task,
			Round:     req.Round,
			Status:    status,
			RepoURL:   res.RepoURL,
			CommitSHA: res.CommitSHA,
			Message:   res.Message,
		}
		if err := p.store.Append(ctx, rec); err != nil {
			slog.Warn("failed to record build history", logfields.Task(req.Task), logfields.Error(err))
		}
	}

	if res.OK {
		slog.Info("build request completed",
			logfields.Task(req.Task),
			logfields.Round(req.Round),
			logfields.CommitSHA(res.CommitSHA),
			logfields.DurationMS(float64(elapsed.Milliseconds())))
	} else {
		slog.Error("build request failed",
			logfields.Task(req.Task),
			logfields.Round(req.Round),
			slog.String("message", res.Message),
			logfields.DurationMS(float64(elapsed.Milliseconds())))
	}
	return res
}
