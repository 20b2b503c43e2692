// Package metrics exposes Prometheus instrumentation for the publish pipeline.
package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// ResultLabel is the outcome label recorded for stages and pipelines.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Stage label values used across the pipeline.
const (
	StageGenerate = "generate"
	StagePublish  = "publish"
	StagePages    = "pages"
	StageNotify   = "notify"
)

// Recorder implements pipeline instrumentation backed by Prometheus.
type Recorder struct {
	once             sync.Once
	requests         *prom.CounterVec
	pipelineDuration prom.Histogram
	stageResults     *prom.CounterVec
	notifyAttempts   prom.Counter
	notifyExhausted  prom.Counter
}

// NewRecorder constructs and registers Prometheus metrics (idempotent).
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{}
	r.once.Do(func() {
		r.requests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "appsmith",
			Name:      "requests_total",
			Help:      "Build requests by final outcome",
		}, []string{"outcome"})
		r.pipelineDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "appsmith",
			Name:      "pipeline_duration_seconds",
			Help:      "Total pipeline duration per request",
			Buckets:   prom.DefBuckets,
		})
		r.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "appsmith",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		r.notifyAttempts = prom.NewCounter(prom.CounterOpts{
			Namespace: "appsmith",
			Name:      "notify_attempts_total",
			Help:      "Total evaluation notification attempts",
		})
		r.notifyExhausted = prom.NewCounter(prom.CounterOpts{
			Namespace: "appsmith",
			Name:      "notify_exhausted_total",
			Help:      "Notifications abandoned after the full retry schedule",
		})
		reg.MustRegister(r.requests, r.pipelineDuration, r.stageResults, r.notifyAttempts, r.notifyExhausted)
	})
	return r
}

func (r *Recorder) IncRequest(outcome ResultLabel) {
	if r == nil || r.requests == nil {
		return
	}
	r.requests.WithLabelValues(string(outcome)).Inc()
}

func (r *Recorder) ObservePipelineDuration(d time.Duration) {
	if r == nil || r.pipelineDuration == nil {
		return
	}
	r.pipelineDuration.Observe(d.Seconds())
}

func (r *Recorder) IncStageResult(stage string, result ResultLabel) {
	if r == nil || r.stageResults == nil {
		return
	}
	r.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (r *Recorder) IncNotifyAttempt() {
	if r == nil || r.notifyAttempts == nil {
		return
	}
	r.notifyAttempts.Inc()
}

func (r *Recorder) IncNotifyExhausted() {
	if r == nil || r.notifyExhausted == nil {
		return
	}
	r.notifyExhausted.Inc()
}
