package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/glowstarlabs/alttext-audit/internal/app"
	"github.com/glowstarlabs/alttext-audit/internal/demoserver"
	"github.com/glowstarlabs/alttext-audit/internal/metrics"
	"github.com/glowstarlabs/alttext-audit/internal/model"
	"github.com/glowstarlabs/alttext-audit/internal/testutil"
	"github.com/glowstarlabs/alttext-audit/internal/wcag"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := app.DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "audits.db")

	srv, err := NewServer(Config{
		ListenAddr: ":0",
		AppConfig:  cfg,
		Logger:     &testutil.DummyLogger{},
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *Server, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func getPath(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestScanInlineHTML(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/scan", map[string]string{
		"url":  "https://example.com/page",
		"html": `<html><body><img src="x.jpg"></body></html>`,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var report model.ComplianceReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.URL != "https://example.com/page" {
		t.Errorf("url = %q", report.URL)
	}
	if report.CriticalIssues == 0 {
		t.Error("expected a critical issue for the missing alt attribute")
	}
}

func TestScanValidation(t *testing.T) {
	srv := newTestServer(t)

	if w := postJSON(t, srv, "/scan", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("empty scan request: status = %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON: status = %d, want 400", w.Code)
	}
}

func TestStartAuditValidation(t *testing.T) {
	srv := newTestServer(t)
	if w := postJSON(t, srv, "/audits", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("missing url: status = %d, want 400", w.Code)
	}
	if w := postJSON(t, srv, "/audits", map[string]string{"url": "http://%zz"}); w.Code != http.StatusBadRequest {
		t.Errorf("malformed url: status = %d, want 400", w.Code)
	}
}

func TestGetAuditNotFound(t *testing.T) {
	srv := newTestServer(t)
	if w := getPath(t, srv, "/audits/does-not-exist"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetJobNotFound(t *testing.T) {
	srv := newTestServer(t)
	if w := getPath(t, srv, "/jobs/does-not-exist"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDiffValidation(t *testing.T) {
	srv := newTestServer(t)
	if w := getPath(t, srv, "/diff?base=only-base"); w.Code != http.StatusBadRequest {
		t.Errorf("missing head: status = %d, want 400", w.Code)
	}
	if w := getPath(t, srv, "/diff?base=a&head=b"); w.Code != http.StatusNotFound {
		t.Errorf("unknown snapshots: status = %d, want 404", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	w := getPath(t, srv, "/jobs")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}

	req := httptest.NewRequest(http.MethodOptions, "/scan", nil)
	pre := httptest.NewRecorder()
	srv.ServeHTTP(pre, req)
	if pre.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", pre.Code)
	}
	if got := pre.Header().Get("Access-Control-Allow-Methods"); got != "POST" {
		t.Errorf("allow-methods = %q", got)
	}
}

func TestCriteriaReference(t *testing.T) {
	srv := newTestServer(t)

	w := getPath(t, srv, "/criteria")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var criteria map[string]wcag.Criterion
	if err := json.Unmarshal(w.Body.Bytes(), &criteria); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c, ok := criteria["1.1.1"]; !ok || c.Level != "A" {
		t.Errorf("criteria table = %+v, want 1.1.1 at level A", criteria)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	if w := getPath(t, srv, "/metrics"); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestMetricsLabelRoutePattern(t *testing.T) {
	// Init registers on the default registry; the one call for the whole test
	// binary lives here.
	metrics.Init()
	srv := newTestServer(t)

	getPath(t, srv, "/jobs/some-job-id")
	getPath(t, srv, "/audits/some-audit-id")

	scrape := getPath(t, srv, "/metrics").Body.String()
	if !strings.Contains(scrape, `path="/jobs/{jobID}"`) {
		t.Error("job requests not labeled with the route pattern")
	}
	if !strings.Contains(scrape, `path="/audits/{auditID}"`) {
		t.Error("audit requests not labeled with the route pattern")
	}
	// Raw IDs in the label would mint a series per job.
	if strings.Contains(scrape, "some-job-id") || strings.Contains(scrape, "some-audit-id") {
		t.Error("raw request paths leaked into metric labels")
	}
}

func TestSEOAnalyzeComposesFallback(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/seo/analyze", map[string]any{
		"platform": "shopify",
		"product": map[string]any{
			"product_name":     "Trail Pack 40L",
			"product_category": "Backpacks",
			"brand_name":       "Glowstar",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp SEOAnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AltText != "Glowstar Trail Pack 40L - Backpacks" {
		t.Errorf("alt text = %q", resp.AltText)
	}
	if resp.MaxAllowed != 512 {
		t.Errorf("max allowed = %d, want shopify limit", resp.MaxAllowed)
	}
	if resp.Analysis.Recommendation == "" {
		t.Error("missing recommendation")
	}
}

func TestPlatformSyncRejectsUnknownPlatform(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/platforms/sync", map[string]any{
		"platform":    "corner-shop",
		"credentials": map[string]string{},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPlatformSyncRejectsMissingCredentials(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/platforms/sync", map[string]any{
		"platform":    "shopify",
		"credentials": map[string]string{"shop_domain": "x.myshopify.com"},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "access_token") {
		t.Errorf("body = %s, want the missing field named", w.Body.String())
	}
}

// waitForJobDone polls the REST job endpoint until the job reaches a terminal
// status.
func waitForJobDone(t *testing.T, srv *Server, jobID string) app.Job {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		w := getPath(t, srv, "/jobs/"+jobID)
		if w.Code != http.StatusOK {
			t.Fatalf("job status = %d", w.Code)
		}
		var job app.Job
		if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
			t.Fatalf("decode job: %v", err)
		}
		switch job.Status {
		case app.JobDone, app.JobFailed, app.JobCanceled:
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal status")
	return app.Job{}
}

func TestAuditEndToEnd(t *testing.T) {
	fixture := httptest.NewServer(demoserver.NewDemoServer(demoserver.DefaultConfig()).Handler())
	defer fixture.Close()

	srv := newTestServer(t)

	w := postJSON(t, srv, "/audits", map[string]any{"url": fixture.URL, "max_pages": 4})
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var started app.Job
	if err := json.Unmarshal(w.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode job: %v", err)
	}

	job := waitForJobDone(t, srv, started.ID)
	if job.Status != app.JobDone {
		t.Fatalf("job status = %q, error = %s", job.Status, job.Error)
	}
	if job.SiteReport == nil || job.SiteReport.PagesAnalyzed == 0 {
		t.Fatalf("site report = %+v", job.SiteReport)
	}
	// The version 1 fixture pages are full of defects.
	if job.SiteReport.ComplianceScore >= 100 {
		t.Errorf("score = %v, want defects detected", job.SiteReport.ComplianceScore)
	}
	if job.AuditID == "" {
		t.Fatal("audit was not persisted")
	}

	// The stored report is retrievable and listed.
	if w := getPath(t, srv, "/audits/"+job.AuditID); w.Code != http.StatusOK {
		t.Errorf("get audit status = %d", w.Code)
	}
	listW := getPath(t, srv, "/audits")
	var audits []model.AuditRecord
	if err := json.Unmarshal(listW.Body.Bytes(), &audits); err != nil {
		t.Fatalf("decode audits: %v", err)
	}
	if len(audits) != 1 {
		t.Fatalf("audits = %d, want 1", len(audits))
	}

	// Snapshots were captured per crawled page.
	snapW := getPath(t, srv, "/audits/"+job.AuditID+"/snapshots")
	var snaps []model.Snapshot
	if err := json.Unmarshal(snapW.Body.Bytes(), &snaps); err != nil {
		t.Fatalf("decode snapshots: %v", err)
	}
	if len(snaps) != job.SiteReport.PagesAnalyzed {
		t.Errorf("snapshots = %d, want %d", len(snaps), job.SiteReport.PagesAnalyzed)
	}
}

func TestJobWebSocketStreams(t *testing.T) {
	fixture := httptest.NewServer(demoserver.NewDemoServer(demoserver.DefaultConfig()).Handler())
	defer fixture.Close()

	srv := newTestServer(t)
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()

	w := postJSON(t, srv, "/audits", map[string]any{"url": fixture.URL, "max_pages": 2})
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
	var started app.Job
	if err := json.Unmarshal(w.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode job: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws/jobs/" + started.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// First frame is the job snapshot; subsequent frames are events until the
	// job finishes and the server closes the stream.
	var first app.Job
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read job frame: %v", err)
	}
	if first.ID != started.ID {
		t.Errorf("job frame ID = %q", first.ID)
	}

	frames := 0
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		var ev app.JobEvent
		if err := conn.ReadJSON(&ev); err != nil {
			break
		}
		frames++
	}
	// A job that finished before the dial has a drained channel, so only
	// require event frames when the snapshot showed it still running.
	if frames == 0 && (first.Status == app.JobPending || first.Status == app.JobRunning) {
		t.Error("no event frames streamed before close")
	}

	job := waitForJobDone(t, srv, started.ID)
	if job.Status != app.JobDone {
		t.Errorf("job status = %q, error = %s", job.Status, job.Error)
	}
}

func TestWebSocketUnknownJob(t *testing.T) {
	srv := newTestServer(t)
	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()

	resp, err := http.Get(httpSrv.URL + "/ws/jobs/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestBatchScanEndToEnd(t *testing.T) {
	fixture := httptest.NewServer(demoserver.NewDemoServer(demoserver.DefaultConfig()).Handler())
	defer fixture.Close()

	srv := newTestServer(t)

	w := postJSON(t, srv, "/scan/batch", map[string]any{
		"urls": []string{fixture.URL + "/", fixture.URL + "/about"},
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var started app.Job
	if err := json.Unmarshal(w.Body.Bytes(), &started); err != nil {
		t.Fatalf("decode job: %v", err)
	}

	job := waitForJobDone(t, srv, started.ID)
	if job.Status != app.JobDone {
		t.Fatalf("job status = %q, error = %s", job.Status, job.Error)
	}
	if job.BatchReport == nil || len(job.BatchReport.Results) != 2 {
		t.Fatalf("batch report = %+v", job.BatchReport)
	}
	for _, res := range job.BatchReport.Results {
		if res.Status == model.StatusError {
			t.Errorf("result %s reported error: %s", res.URL, res.Error)
		}
	}
}
