// Package registry persists completed audits and their page snapshots in
// SQLite so successive crawls of the same site can be listed and diffed.
package registry

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	ErrAuditNotFound    = errors.New("audit not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Registry is the SQLite-backed audit store.
type Registry struct {
	db     *sql.DB
	logger interfaces.Logger
}

// NewRegistry wraps db and runs migrations from the embedded schema.
// db should be a modernc.org/sqlite connection.
func NewRegistry(db *sql.DB, logger interfaces.Logger) (*Registry, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &Registry{
		db:     db,
		logger: logger.With(interfaces.Field{Key: "component", Value: "registry"}),
	}, nil
}

// SaveReport stores a completed site report plus the page bodies captured
// during the crawl, atomically. Returns the new audit ID.
func (r *Registry) SaveReport(ctx context.Context, report *model.SiteReport, bodies map[string][]byte) (string, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	auditID := uuid.New().String()
	now := time.Now().Unix()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO audits (id, root_url, domain, compliance_score, page_count, image_count, report_json, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		auditID, report.RootURL, report.Domain, report.ComplianceScore,
		report.PagesAnalyzed, report.TotalImages(), string(reportJSON), now,
	)
	if err != nil {
		return "", fmt.Errorf("insert audit: %w", err)
	}

	for url, body := range bodies {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO snapshots (id, audit_id, url, body, body_size, created_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), auditID, url, body, len(body), now,
		)
		if err != nil {
			return "", fmt.Errorf("insert snapshot %s: %w", url, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	r.logger.Info("audit saved",
		interfaces.Field{Key: "audit_id", Value: auditID},
		interfaces.Field{Key: "domain", Value: report.Domain},
		interfaces.Field{Key: "snapshots", Value: len(bodies)})

	return auditID, nil
}

// GetReport loads one stored report by audit ID.
func (r *Registry) GetReport(ctx context.Context, auditID string) (*model.SiteReport, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT report_json FROM audits WHERE id = ? LIMIT 1`, auditID)

	var reportJSON string
	if err := row.Scan(&reportJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAuditNotFound
		}
		return nil, err
	}

	var report model.SiteReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}

// ListAudits returns recent audits, newest first. limit <= 0 means no limit.
func (r *Registry) ListAudits(ctx context.Context, limit int) ([]*model.AuditRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, root_url, domain, compliance_score, page_count, image_count, created_at
         FROM audits
         ORDER BY created_at DESC
         LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.AuditRecord
	for rows.Next() {
		var rec model.AuditRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.RootURL, &rec.Domain, &rec.Score,
			&rec.PageCount, &rec.ImageCount, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// ListSnapshots returns the snapshots captured for one audit, without bodies.
func (r *Registry) ListSnapshots(ctx context.Context, auditID string) ([]*model.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, audit_id, url, body_size, created_at
         FROM snapshots
         WHERE audit_id = ?
         ORDER BY created_at, url`, auditID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Snapshot
	for rows.Next() {
		var s model.Snapshot
		var createdAt int64
		if err := rows.Scan(&s.ID, &s.AuditID, &s.URL, &s.BodySize, &createdAt); err != nil {
			return nil, err
		}
		s.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *Registry) snapshotBody(ctx context.Context, id string) ([]byte, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT body FROM snapshots WHERE id = ? LIMIT 1`, id)
	var body []byte
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return body, nil
}

// Close releases the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}
