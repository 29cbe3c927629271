package interfaces

import (
	"context"

	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// AuditStore persists completed site reports and raw page snapshots so
// successive audits of the same site can be listed and diffed.
// Implementations should be safe for concurrent use.
type AuditStore interface {
	// SaveReport stores a completed site report plus the page bodies captured
	// during the crawl. Returns the new audit ID.
	SaveReport(ctx context.Context, report *model.SiteReport, bodies map[string][]byte) (string, error)

	// GetReport loads one stored report by audit ID.
	GetReport(ctx context.Context, auditID string) (*model.SiteReport, error)

	// ListAudits returns recent audits, newest first.
	ListAudits(ctx context.Context, limit int) ([]*model.AuditRecord, error)

	// ListSnapshots returns the snapshots captured for one audit.
	ListSnapshots(ctx context.Context, auditID string) ([]*model.Snapshot, error)

	// Diff computes the body delta between two stored snapshots.
	Diff(ctx context.Context, baseID, headID string) (*model.SnapshotDiff, error)

	// Close releases the underlying database.
	Close() error
}
