package registry

import (
	"context"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// Diff computes the body delta between two stored snapshots. Equal and
// whitespace-only chunks are dropped; an empty chunk list means the bodies
// are effectively identical.
func (r *Registry) Diff(ctx context.Context, baseID, headID string) (*model.SnapshotDiff, error) {
	base, err := r.snapshotBody(ctx, baseID)
	if err != nil {
		return nil, err
	}
	head, err := r.snapshotBody(ctx, headID)
	if err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(base), string(head), true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]model.DiffChunk, 0)
	for _, d := range diffs {
		var chunkType string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunkType = "added"
		case diffmatchpatch.DiffDelete:
			chunkType = "removed"
		case diffmatchpatch.DiffEqual:
			continue
		}

		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		chunks = append(chunks, model.DiffChunk{Type: chunkType, Content: d.Text})
	}

	return &model.SnapshotDiff{BaseID: baseID, HeadID: headID, Chunks: chunks}, nil
}
