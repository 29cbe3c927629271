package model

import "time"

// AuditRecord is one persisted crawl result in the audit history.
type AuditRecord struct {
	ID         string    `json:"id"`
	RootURL    string    `json:"root_url"`
	Domain     string    `json:"domain"`
	Score      float64   `json:"compliance_score"`
	PageCount  int       `json:"page_count"`
	ImageCount int       `json:"image_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Snapshot is a captured page body stored alongside an audit so later audits
// of the same URL can be diffed against it.
type Snapshot struct {
	ID        string    `json:"id"`
	AuditID   string    `json:"audit_id"`
	URL       string    `json:"url"`
	Body      []byte    `json:"-"`
	BodySize  int       `json:"body_size"`
	CreatedAt time.Time `json:"created_at"`
}

// DiffChunk is a single change in a snapshot diff.
type DiffChunk struct {
	Type    string `json:"type"` // "added" or "removed"
	Content string `json:"content"`
}

// SnapshotDiff is the structured body diff between two stored snapshots.
type SnapshotDiff struct {
	BaseID string      `json:"base_id"`
	HeadID string      `json:"head_id"`
	Chunks []DiffChunk `json:"chunks"`
}
