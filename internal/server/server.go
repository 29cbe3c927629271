package server

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/glowstarlabs/alttext-audit/docs" // swagger spec
	"github.com/glowstarlabs/alttext-audit/internal/alttext"
	"github.com/glowstarlabs/alttext-audit/internal/app"
	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/logging"
	"github.com/glowstarlabs/alttext-audit/internal/metrics"
	"github.com/glowstarlabs/alttext-audit/internal/platform"
	"github.com/glowstarlabs/alttext-audit/internal/registry"
	"github.com/glowstarlabs/alttext-audit/internal/seo"
	"github.com/glowstarlabs/alttext-audit/internal/urlutil"
	"github.com/glowstarlabs/alttext-audit/internal/wcag"
	"github.com/glowstarlabs/alttext-audit/internal/webclient"

	_ "modernc.org/sqlite" // SQLite driver
)

// Server is the HTTP + WebSocket API surface for the audit service.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	store        interfaces.AuditStore
	webClient    interfaces.WebClient
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       interfaces.Logger
	registryDB   *sql.DB
}

// NewServer creates a Server with its own Orchestrator, web client and
// audit store.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = cfg.AppConfig.ListenAddr
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	webclient.RegisterDefaultBackends()
	wc, err := webclient.New(cfg.AppConfig.WebClient, logger)
	if err != nil {
		return nil, fmt.Errorf("creating web client: %w", err)
	}

	assessor, err := alttext.NewAssessor(alttext.DefaultConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("creating assessor: %w", err)
	}
	scanner, err := wcag.NewScanner(cfg.AppConfig.Scan, assessor, logger)
	if err != nil {
		return nil, fmt.Errorf("creating scanner: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.AppConfig.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}
	reg, err := registry.NewRegistry(db, logger)
	if err != nil {
		return nil, fmt.Errorf("creating registry: %w", err)
	}

	orch := app.NewOrchestrator(cfg.AppConfig, wc, scanner, reg, logger)

	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		store:        reg,
		webClient:    wc,
		router:       chi.NewRouter(),
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
		registryDB: db,
	}

	s.routes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)
	r.Use(metricsMiddleware)

	// CORS preflight
	r.Options("/scan", s.optionsHandler("POST"))
	r.Options("/scan/batch", s.optionsHandler("POST"))
	r.Options("/audits", s.optionsHandler("GET, POST"))
	r.Options("/compare", s.optionsHandler("POST"))
	r.Options("/jobs", s.optionsHandler("GET"))
	r.Options("/jobs/{jobID}", s.optionsHandler("GET, DELETE"))
	r.Options("/seo/analyze", s.optionsHandler("POST"))
	r.Options("/platforms/sync", s.optionsHandler("POST"))
	r.Options("/platforms/push", s.optionsHandler("POST"))

	// Scans
	r.Post("/scan", s.handleScan)
	r.Post("/scan/batch", s.handleBatchScan)

	// Audits
	r.Post("/audits", s.handleStartAudit)
	r.Get("/audits", s.handleListAudits)
	r.Get("/audits/{auditID}", s.handleGetAudit)
	r.Get("/audits/{auditID}/snapshots", s.handleListSnapshots)
	r.Get("/diff", s.handleDiff)

	// Comparison
	r.Post("/compare", s.handleCompare)

	// Jobs over REST
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{jobID}", s.handleGetJob)
	r.Delete("/jobs/{jobID}", s.handleCancelJob)

	// Reference data
	r.Get("/criteria", s.handleCriteria)

	// SEO + platform integrations
	r.Post("/seo/analyze", s.handleSEOAnalyze)
	r.Post("/platforms/sync", s.handlePlatformSync)
	r.Post("/platforms/push", s.handlePlatformPush)

	// WebSockets for job progress
	r.Get("/ws/jobs/{jobID}", s.handleJobWS)

	// Operational surface
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler())
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// metricsMiddleware records request counts and latency per route.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Hijack exposes the underlying connection so WebSocket upgrades work
// through the middleware.
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if metrics.HTTPRequestsTotal == nil {
			return
		}
		// Label with the route pattern, not the raw path; paths with IDs in
		// them would mint a new series per job or audit.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := strconv.Itoa(rec.status)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []interfaces.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, interfaces.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, interfaces.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the orchestrator and underlying resources.
func (s *Server) Close() {
	if s.orchestrator != nil {
		_ = s.orchestrator.Shutdown(context.Background())
	}
	if s.webClient != nil {
		_ = s.webClient.Close()
	}
	if s.registryDB != nil {
		s.registryDB.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- HTTP handlers ---

// Scans

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var body ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.URL == "" && body.HTML == "" {
		writeError(w, http.StatusBadRequest, "either url or html is required")
		return
	}

	if body.HTML != "" {
		report, err := s.orchestrator.ScanHTML(r.Context(), []byte(body.HTML), body.URL)
		if err != nil {
			s.logger.Warn("scanning html", interfaces.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, report)
		return
	}

	report := s.orchestrator.ScanURL(r.Context(), body.URL)
	s.logger.Info("scanned page",
		interfaces.Field{Key: "url", Value: body.URL},
		interfaces.Field{Key: "score", Value: report.Score})
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBatchScan(w http.ResponseWriter, r *http.Request) {
	var body BatchScanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(body.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls is required")
		return
	}

	// Jobs outlive the request; detach them from the request context.
	job, err := s.orchestrator.StartBatchScanJob(context.Background(), body.URLs)
	if err != nil {
		s.logger.Warn("starting batch scan job", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("started batch scan job",
		interfaces.Field{Key: "job_id", Value: job.ID},
		interfaces.Field{Key: "urls", Value: len(body.URLs)})
	writeJSON(w, http.StatusAccepted, job)
}

// Audits

func (s *Server) handleStartAudit(w http.ResponseWriter, r *http.Request) {
	var body StartAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	// Accept bare domains; users paste "shop.example" as often as full URLs.
	seed, err := urlutil.Canonicalize(body.URL, urlutil.CanonicalizeOptions{DefaultScheme: "https"})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}

	job, err := s.orchestrator.StartAuditJob(context.Background(), seed, body.MaxPages)
	if err != nil {
		s.logger.Warn("starting audit job", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("started audit job",
		interfaces.Field{Key: "job_id", Value: job.ID},
		interfaces.Field{Key: "url", Value: body.URL})
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	audits, err := s.store.ListAudits(r.Context(), limit)
	if err != nil {
		s.logger.Warn("listing audits", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, audits)
}

func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	auditID := chi.URLParam(r, "auditID")

	report, err := s.store.GetReport(r.Context(), auditID)
	if err != nil {
		if errors.Is(err, registry.ErrAuditNotFound) {
			writeError(w, http.StatusNotFound, "audit not found")
			return
		}
		s.logger.Warn("getting audit", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	auditID := chi.URLParam(r, "auditID")

	snaps, err := s.store.ListSnapshots(r.Context(), auditID)
	if err != nil {
		s.logger.Warn("listing snapshots", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	baseID := r.URL.Query().Get("base")
	headID := r.URL.Query().Get("head")
	if baseID == "" || headID == "" {
		writeError(w, http.StatusBadRequest, "base and head query parameters are required")
		return
	}

	diff, err := s.store.Diff(r.Context(), baseID, headID)
	if err != nil {
		if errors.Is(err, registry.ErrSnapshotNotFound) {
			writeError(w, http.StatusNotFound, "snapshot not found")
			return
		}
		s.logger.Warn("diffing snapshots", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, diff)
}

// Comparison

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var body CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.YourURL == "" || len(body.CompetitorURLs) == 0 {
		writeError(w, http.StatusBadRequest, "your_url and competitor_urls are required")
		return
	}
	yourURL, err := urlutil.Canonicalize(body.YourURL, urlutil.CanonicalizeOptions{DefaultScheme: "https"})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid your_url")
		return
	}

	job, err := s.orchestrator.StartCompareJob(context.Background(), yourURL, body.CompetitorURLs, body.MaxPagesEach)
	if err != nil {
		s.logger.Warn("starting compare job", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("started compare job",
		interfaces.Field{Key: "job_id", Value: job.ID},
		interfaces.Field{Key: "competitors", Value: len(body.CompetitorURLs)})
	writeJSON(w, http.StatusAccepted, job)
}

// Jobs (REST)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.orchestrator.ListJobs()
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	s.orchestrator.CancelJob(jobID)
	s.logger.Info("canceled job", interfaces.Field{Key: "job_id", Value: jobID})
	writeJSON(w, http.StatusNoContent, nil)
}

// Reference data

func (s *Server) handleCriteria(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wcag.Criteria)
}

// SEO

func (s *Server) handleSEOAnalyze(w http.ResponseWriter, r *http.Request) {
	var body SEOAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.Platform == "" {
		body.Platform = "generic"
	}

	altText := body.AltText
	if altText == "" {
		altText = seo.ComposeFallback(body.Product, body.Platform)
	}
	altText = seo.Truncate(altText, seo.LimitFor(body.Platform))

	analysis := seo.AnalyzeQuality(altText, body.TargetKeywords, body.Platform)
	writeJSON(w, http.StatusOK, SEOAnalyzeResponse{
		AltText:        altText,
		Platform:       body.Platform,
		CharacterCount: len(altText),
		MaxAllowed:     seo.LimitFor(body.Platform),
		Analysis:       analysis,
	})
}

// Platform integrations

func (s *Server) handlePlatformSync(w http.ResponseWriter, r *http.Request) {
	var body PlatformSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	integ, err := platform.New(platform.Platform(body.Platform), body.Credentials, s.webClient, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	catalog, err := integ.FetchProducts(r.Context(), body.Options)
	if err != nil {
		s.logger.Warn("platform sync failed",
			interfaces.Field{Key: "platform", Value: body.Platform},
			interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (s *Server) handlePlatformPush(w http.ResponseWriter, r *http.Request) {
	var body PlatformPushRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	integ, err := platform.New(platform.Platform(body.Platform), body.Credentials, s.webClient, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := integ.PushAltText(r.Context(), body.Updates)
	if err != nil {
		if errors.Is(err, platform.ErrPushUnsupported) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Warn("platform push failed",
			interfaces.Field{Key: "platform", Value: body.Platform},
			interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// WebSockets

func (s *Server) handleJobWS(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", interfaces.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	// Send the current job state, then stream events until the job's
	// channel closes.
	_ = conn.WriteJSON(job)

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; cancel job
			s.orchestrator.CancelJob(job.ID)
			return
		}
	}
}
