package app

import (
	"context"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glowstarlabs/alttext-audit/internal/crawler"
	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/model"
)

type JobEventType string

const (
	JobEventStatus   JobEventType = "status"
	JobEventProgress JobEventType = "progress"
	JobEventResult   JobEventType = "result"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// For progress (optional fields)
	Processed int `json:"processed,omitempty"`
	Total     int `json:"total,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

type Job struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"` // "audit" | "compare" | "batch_scan"
	Target    string        `json:"target"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Events    chan JobEvent `json:"-"`

	// Optional results:
	AuditID     string                       `json:"audit_id,omitempty"`
	SiteReport  *model.SiteReport            `json:"site_report,omitempty"`
	Comparison  *model.ComparisonResult      `json:"comparison,omitempty"`
	BatchReport *model.BatchComplianceReport `json:"batch_report,omitempty"`
}

// Orchestrator owns the async job lifecycle: it spawns crawls, scans and
// comparisons, tracks their status, and persists completed audits.
type Orchestrator struct {
	cfg     *Config
	client  interfaces.WebClient
	scanner interfaces.Scanner
	store   interfaces.AuditStore
	logger  interfaces.Logger

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc
}

// NewOrchestrator ties together config, fetch client, scanner and store.
// store may be nil; audits then complete without being persisted.
func NewOrchestrator(cfg *Config, client interfaces.WebClient, scanner interfaces.Scanner, store interfaces.AuditStore, logger interfaces.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Orchestrator{
		cfg:        cfg,
		client:     client,
		scanner:    scanner,
		store:      store,
		logger:     logger.With(interfaces.Field{Key: "component", Value: "orchestrator"}),
		jobs:       make(map[string]*Job),
		jobCancels: make(map[string]context.CancelFunc),
	}
}

func (o *Orchestrator) emitJobEvent(jobID string, ev JobEvent) {
	o.jobsMu.Lock()
	job, ok := o.jobs[jobID]
	o.jobsMu.Unlock()
	if !ok || job == nil || job.Events == nil {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
	}
}

func (o *Orchestrator) updateJob(jobID string, apply func(*Job)) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if j, ok := o.jobs[jobID]; ok {
		apply(j)
	}
}

// newJob registers a pending job and its cancel func, emitting the initial
// status event.
func (o *Orchestrator) newJob(ctx context.Context, jobType, target string) (*Job, context.Context) {
	job := &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Target:    target,
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, 16),
	}

	jobCtx, cancel := context.WithCancel(ctx)

	o.jobsMu.Lock()
	o.jobs[job.ID] = job
	o.jobCancels[job.ID] = cancel
	o.jobsMu.Unlock()

	o.emitJobEvent(job.ID, JobEvent{JobID: job.ID, Type: JobEventStatus, Status: JobPending})
	return job, jobCtx
}

// runJob drives the common lifecycle around a job body: running status,
// cancellation vs failure on error, done on success, channel close at the
// end so websocket readers terminate.
func (o *Orchestrator) runJob(jobID string, jobCtx context.Context, body func(context.Context) error) {
	defer func() {
		o.updateJob(jobID, func(j *Job) { j.EndedAt = time.Now().UTC() })

		o.jobsMu.Lock()
		delete(o.jobCancels, jobID)
		j := o.jobs[jobID]
		o.jobsMu.Unlock()
		if j != nil && j.Events != nil {
			close(j.Events)
		}
	}()

	o.updateJob(jobID, func(j *Job) { j.Status = JobRunning })
	o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobRunning})

	err := body(jobCtx)

	if jobCtx.Err() != nil {
		msg := jobCtx.Err().Error()
		o.updateJob(jobID, func(j *Job) {
			j.Status = JobCanceled
			j.Error = msg
		})
		o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobCanceled, Error: msg})
		return
	}
	if err != nil {
		o.updateJob(jobID, func(j *Job) {
			j.Status = JobFailed
			j.Error = err.Error()
		})
		o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobFailed, Error: err.Error()})
		return
	}

	o.updateJob(jobID, func(j *Job) { j.Status = JobDone })
	o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventResult, Status: JobDone})
}

// StartAuditJob crawls seed asynchronously and persists the resulting report
// with its page snapshots.
func (o *Orchestrator) StartAuditJob(ctx context.Context, seed string, maxPages int) (*Job, error) {
	job, jobCtx := o.newJob(ctx, "audit", seed)

	go o.runJob(job.ID, jobCtx, func(ctx context.Context) error {
		bodies := make(map[string][]byte)
		c := crawler.NewCrawler(o.cfg.Crawler, o.client, o.scanner, o.logger,
			crawler.WithPageSink(func(url string, body []byte) {
				bodies[url] = body
				o.emitJobEvent(job.ID, JobEvent{
					JobID:     job.ID,
					Type:      JobEventProgress,
					Processed: len(bodies),
					Total:     maxPages,
				})
			}))

		report, err := c.AnalyzeSite(ctx, seed, maxPages)
		if err != nil {
			return err
		}

		auditID := ""
		if o.store != nil {
			auditID, err = o.store.SaveReport(ctx, report, bodies)
			if err != nil {
				return err
			}
		}

		o.updateJob(job.ID, func(j *Job) {
			j.SiteReport = report
			j.AuditID = auditID
		})
		return nil
	})

	// Snapshot so the caller never reads fields the goroutine is writing.
	return o.GetJob(job.ID), nil
}

// StartCompareJob crawls the caller's site and each competitor, then ranks
// them. Nothing is persisted; comparisons are point-in-time.
func (o *Orchestrator) StartCompareJob(ctx context.Context, yourURL string, competitorURLs []string, maxPagesEach int) (*Job, error) {
	job, jobCtx := o.newJob(ctx, "compare", yourURL)

	go o.runJob(job.ID, jobCtx, func(ctx context.Context) error {
		c := crawler.NewCrawler(o.cfg.Crawler, o.client, o.scanner, o.logger)
		result, err := c.Compare(ctx, yourURL, competitorURLs, maxPagesEach)
		if err != nil {
			return err
		}
		o.updateJob(job.ID, func(j *Job) { j.Comparison = result })
		return nil
	})

	// Snapshot so the caller never reads fields the goroutine is writing.
	return o.GetJob(job.ID), nil
}

// StartBatchScanJob runs the deep compliance scan over each URL and averages
// the scores. Unreachable URLs score zero and stay in the result set.
func (o *Orchestrator) StartBatchScanJob(ctx context.Context, urls []string) (*Job, error) {
	target := ""
	if len(urls) > 0 {
		target = urls[0]
	}
	job, jobCtx := o.newJob(ctx, "batch_scan", target)

	go o.runJob(job.ID, jobCtx, func(ctx context.Context) error {
		batch := &model.BatchComplianceReport{
			TotalURLs: len(urls),
			Results:   []*model.ComplianceReport{},
			CheckedAt: time.Now().UTC(),
		}

		totalScore := 0.0
		for i, url := range urls {
			if err := ctx.Err(); err != nil {
				return err
			}

			report := o.ScanURL(ctx, url)
			batch.Results = append(batch.Results, report)
			totalScore += report.Score

			o.emitJobEvent(job.ID, JobEvent{
				JobID:     job.ID,
				Type:      JobEventProgress,
				Processed: i + 1,
				Total:     len(urls),
			})
		}

		if len(batch.Results) > 0 {
			batch.AverageScore = math.Round(totalScore/float64(len(batch.Results))*10) / 10
		}
		o.updateJob(job.ID, func(j *Job) { j.BatchReport = batch })
		return nil
	})

	// Snapshot so the caller never reads fields the goroutine is writing.
	return o.GetJob(job.ID), nil
}

// ScanURL fetches one page and runs the deep compliance scan synchronously.
// Fetch failures yield an error-status report with score zero rather than an
// error, so batch runs keep going.
func (o *Orchestrator) ScanURL(ctx context.Context, url string) *model.ComplianceReport {
	resp, err := o.client.Get(ctx, url)
	if err != nil {
		return &model.ComplianceReport{
			URL:       url,
			Error:     err.Error(),
			Status:    model.StatusError,
			CheckedAt: time.Now().UTC(),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return &model.ComplianceReport{
			URL:       url,
			Error:     http.StatusText(resp.StatusCode),
			Status:    model.StatusError,
			CheckedAt: time.Now().UTC(),
		}
	}

	report, err := o.scanner.Scan(ctx, resp.Body, url)
	if err != nil {
		return &model.ComplianceReport{
			URL:       url,
			Error:     err.Error(),
			Status:    model.StatusError,
			CheckedAt: time.Now().UTC(),
		}
	}
	return report
}

// ScanHTML runs the deep compliance scan over caller-provided markup.
func (o *Orchestrator) ScanHTML(ctx context.Context, html []byte, url string) (*model.ComplianceReport, error) {
	return o.scanner.Scan(ctx, html, url)
}

func (o *Orchestrator) CancelJob(jobID string) {
	o.jobsMu.Lock()
	cancel := o.jobCancels[jobID]
	o.jobsMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// GetJob returns a snapshot of the job. The copy keeps callers that
// serialize the job from racing the running job's status updates; the Events
// channel is shared, so streaming consumers still see live events.
func (o *Orchestrator) GetJob(jobID string) *Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()

	j, ok := o.jobs[jobID]
	if !ok {
		return nil
	}
	cp := *j
	return &cp
}

// ListJobs returns snapshots of all known jobs, newest first.
func (o *Orchestrator) ListJobs() []*Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()

	out := make([]*Job, 0, len(o.jobs))
	for _, j := range o.jobs {
		cp := *j
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool {
		return out[i].StartedAt.After(out[k].StartedAt)
	})
	return out
}

// Shutdown cancels all running jobs.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.jobsMu.Lock()
	cancels := make([]context.CancelFunc, 0, len(o.jobCancels))
	for _, cancel := range o.jobCancels {
		cancels = append(cancels, cancel)
	}
	o.jobsMu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return nil
}
