// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements interfaces.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...interfaces.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...interfaces.Field) interfaces.Logger { return l }

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements interfaces.WebClient.
// By default it returns body "ok:<url>" with status 200.
// Set Pages[url] to serve specific HTML, FailURLs[url] = true to force an
// error, or StatusCodes[url] to override the status.
type DummyWebClient struct {
	ResponseDelay time.Duration
	Pages         map[string]string
	FailURLs      map[string]bool
	StatusCodes   map[string]int
	mu            sync.Mutex
	Requests      []*model.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if d.FailURLs != nil && d.FailURLs[req.URL] {
		return nil, &errString{"dummy fetch fail for " + req.URL}
	}

	body := "ok:" + req.URL
	if d.Pages != nil {
		if page, ok := d.Pages[req.URL]; ok {
			body = page
		}
	}
	status := 200
	if d.StatusCodes != nil {
		if code, ok := d.StatusCodes[req.URL]; ok {
			status = code
		}
	}

	return &model.Response{
		Request:    req,
		Body:       []byte(body),
		StatusCode: status,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return d.Do(ctx, &model.Request{Method: "GET", URL: url})
}

func (d *DummyWebClient) Close() error { return nil }

// RequestedURLs returns the URLs fetched so far, in order.
func (d *DummyWebClient) RequestedURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	urls := make([]string, len(d.Requests))
	for i, r := range d.Requests {
		urls[i] = r.URL
	}
	return urls
}

// ─── Scanner ───────────────────────────────────────────────────────────

// DummyScanner implements interfaces.Scanner with preconfigured results.
type DummyScanner struct {
	ComplianceResult *model.ComplianceReport
	PageResult       *model.PageReport
	Err              error

	mu          sync.Mutex
	ScannedURLs []string
	TalliedURLs []string
}

func (d *DummyScanner) Scan(_ context.Context, _ []byte, url string) (*model.ComplianceReport, error) {
	d.mu.Lock()
	d.ScannedURLs = append(d.ScannedURLs, url)
	d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}
	if d.ComplianceResult != nil {
		cp := *d.ComplianceResult
		cp.URL = url
		return &cp, nil
	}
	return &model.ComplianceReport{URL: url, Status: model.StatusCompliant, Score: 100}, nil
}

func (d *DummyScanner) TallyPage(_ context.Context, _ []byte, url string) (*model.PageReport, error) {
	d.mu.Lock()
	d.TalliedURLs = append(d.TalliedURLs, url)
	d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}
	if d.PageResult != nil {
		cp := *d.PageResult
		cp.URL = url
		return &cp, nil
	}
	return &model.PageReport{URL: url}, nil
}

// ─── AuditStore ────────────────────────────────────────────────────────

// DummyStore implements interfaces.AuditStore with in-memory recording.
type DummyStore struct {
	SaveErr error

	mu      sync.Mutex
	nextID  int
	Reports map[string]*model.SiteReport
	Bodies  map[string]map[string][]byte
}

func (s *DummyStore) SaveReport(_ context.Context, report *model.SiteReport, bodies map[string][]byte) (string, error) {
	if s.SaveErr != nil {
		return "", s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := "audit-" + itoa(s.nextID)
	if s.Reports == nil {
		s.Reports = make(map[string]*model.SiteReport)
		s.Bodies = make(map[string]map[string][]byte)
	}
	s.Reports[id] = report
	s.Bodies[id] = bodies
	return id, nil
}

func (s *DummyStore) GetReport(_ context.Context, auditID string) (*model.SiteReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.Reports[auditID]; ok {
		return r, nil
	}
	return nil, &errString{"audit not found: " + auditID}
}

func (s *DummyStore) ListAudits(context.Context, int) ([]*model.AuditRecord, error) {
	return nil, nil
}

func (s *DummyStore) ListSnapshots(context.Context, string) ([]*model.Snapshot, error) {
	return nil, nil
}

func (s *DummyStore) Diff(context.Context, string, string) (*model.SnapshotDiff, error) {
	return nil, nil
}

func (s *DummyStore) Close() error { return nil }

// ─── helpers ───────────────────────────────────────────────────────────

type errString struct{ s string }

func (e *errString) Error() string { return e.s }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
