package registry

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/glowstarlabs/alttext-audit/internal/model"
	"github.com/glowstarlabs/alttext-audit/internal/testutil"
)

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()

	// A named in-memory database per test keeps rows from leaking across tests
	// while still letting the pool share one cache.
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Shared-cache in-memory databases need a single connection or concurrent
	// statements race on the same page cache.
	db.SetMaxOpenConns(1)

	reg, err := NewRegistry(db, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	t.Cleanup(func() { reg.Close() })
	return reg
}

func sampleReport(domain string, score float64) *model.SiteReport {
	return &model.SiteReport{
		RootURL:         "https://" + domain,
		Domain:          domain,
		PagesAnalyzed:   2,
		Tally:           model.TierTally{Good: 3, Missing: 1},
		ComplianceScore: score,
	}
}

func TestSaveAndGetReport(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	report := sampleReport("shop.example", 75.0)
	bodies := map[string][]byte{
		"https://shop.example":   []byte("<html>home</html>"),
		"https://shop.example/a": []byte("<html>a</html>"),
	}

	auditID, err := reg.SaveReport(ctx, report, bodies)
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if auditID == "" {
		t.Fatal("empty audit ID")
	}

	loaded, err := reg.GetReport(ctx, auditID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if loaded.Domain != "shop.example" || loaded.ComplianceScore != 75.0 {
		t.Errorf("loaded report = %+v", loaded)
	}
	if loaded.Tally.Good != 3 {
		t.Errorf("tally did not round-trip: %+v", loaded.Tally)
	}
}

func TestGetReportNotFound(t *testing.T) {
	reg := openTestRegistry(t)

	_, err := reg.GetReport(context.Background(), "no-such-audit")
	if !errors.Is(err, ErrAuditNotFound) {
		t.Fatalf("err = %v, want ErrAuditNotFound", err)
	}
}

func TestListAudits(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	for _, domain := range []string{"a.example", "b.example", "c.example"} {
		if _, err := reg.SaveReport(ctx, sampleReport(domain, 50), nil); err != nil {
			t.Fatalf("SaveReport(%s): %v", domain, err)
		}
	}

	audits, err := reg.ListAudits(ctx, 2)
	if err != nil {
		t.Fatalf("ListAudits: %v", err)
	}
	if len(audits) != 2 {
		t.Errorf("audits = %d, want limit of 2", len(audits))
	}

	all, err := reg.ListAudits(ctx, 0)
	if err != nil {
		t.Fatalf("ListAudits(0): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("audits = %d, want all 3 with no limit", len(all))
	}
	for _, a := range all {
		if a.PageCount != 2 || a.ImageCount != 4 {
			t.Errorf("record = %+v, want page_count 2 / image_count 4", a)
		}
	}
}

func TestListSnapshots(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	bodies := map[string][]byte{
		"https://shop.example":   []byte("<html>home page body</html>"),
		"https://shop.example/a": []byte("<html>a</html>"),
	}
	auditID, err := reg.SaveReport(ctx, sampleReport("shop.example", 60), bodies)
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	snaps, err := reg.ListSnapshots(ctx, auditID)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(snaps))
	}
	for _, s := range snaps {
		if s.AuditID != auditID {
			t.Errorf("snapshot audit ID = %q, want %q", s.AuditID, auditID)
		}
		if s.BodySize != len(bodies[s.URL]) {
			t.Errorf("body size = %d for %s, want %d", s.BodySize, s.URL, len(bodies[s.URL]))
		}
		// Listing omits bodies.
		if len(s.Body) != 0 {
			t.Errorf("snapshot listing should not carry bodies")
		}
	}
}

func TestDiffSnapshots(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	baseBody := `<img src="a.jpg">`
	headBody := `<img src="a.jpg" alt="Red bicycle against a brick wall">`

	baseAudit, err := reg.SaveReport(ctx, sampleReport("shop.example", 0), map[string][]byte{
		"https://shop.example": []byte(baseBody),
	})
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	headAudit, err := reg.SaveReport(ctx, sampleReport("shop.example", 100), map[string][]byte{
		"https://shop.example": []byte(headBody),
	})
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	baseSnaps, _ := reg.ListSnapshots(ctx, baseAudit)
	headSnaps, _ := reg.ListSnapshots(ctx, headAudit)
	if len(baseSnaps) != 1 || len(headSnaps) != 1 {
		t.Fatal("expected one snapshot per audit")
	}

	diff, err := reg.Diff(ctx, baseSnaps[0].ID, headSnaps[0].ID)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}

	if len(diff.Chunks) == 0 {
		t.Fatal("expected diff chunks for changed body")
	}
	foundAdded := false
	for _, ch := range diff.Chunks {
		if ch.Type == "added" {
			foundAdded = true
		}
		if ch.Type != "added" && ch.Type != "removed" {
			t.Errorf("unexpected chunk type %q", ch.Type)
		}
	}
	if !foundAdded {
		t.Errorf("chunks = %+v, want an added chunk", diff.Chunks)
	}
}

func TestDiffIdenticalBodies(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	body := []byte("<html>same</html>")
	a1, _ := reg.SaveReport(ctx, sampleReport("x.example", 50), map[string][]byte{"u": body})
	a2, _ := reg.SaveReport(ctx, sampleReport("x.example", 50), map[string][]byte{"u": body})

	s1, _ := reg.ListSnapshots(ctx, a1)
	s2, _ := reg.ListSnapshots(ctx, a2)

	diff, err := reg.Diff(ctx, s1[0].ID, s2[0].ID)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if len(diff.Chunks) != 0 {
		t.Errorf("chunks = %+v, want none for identical bodies", diff.Chunks)
	}
}

func TestDiffMissingSnapshot(t *testing.T) {
	reg := openTestRegistry(t)

	_, err := reg.Diff(context.Background(), "missing-base", "missing-head")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("err = %v, want ErrSnapshotNotFound", err)
	}
}
