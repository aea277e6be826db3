package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "eyenav.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return repo
}

func testRecord(id string, startedAt time.Time) *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:             id,
		PageName:       "Home",
		PageURL:        "http://x/",
		Mode:           domain.ModeEyeVoice,
		Language:       "en-us",
		ScriptPath:     "/tmp/test_session_" + id + ".feature",
		TranscriptPath: "/tmp/transcription_" + id + ".txt",
		StartedAt:      startedAt,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	startedAt := time.Now().Truncate(time.Second)
	rec := testRecord("2025-03-14_15-09-26", startedAt)
	if err := repo.InsertSession(ctx, rec); err != nil {
		t.Fatalf("InsertSession: %v", err)
	}

	got, err := repo.GetSession(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil {
		t.Fatal("GetSession returned nil for an inserted session")
	}
	if got.PageName != rec.PageName || got.PageURL != rec.PageURL || got.Mode != rec.Mode {
		t.Errorf("GetSession = %+v, want %+v", got, rec)
	}
	if !got.StartedAt.Equal(startedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, startedAt)
	}
	if got.StoppedAt != nil {
		t.Errorf("StoppedAt = %v before finish, want nil", got.StoppedAt)
	}

	stoppedAt := startedAt.Add(42 * time.Second)
	if err := repo.FinishSession(ctx, rec.ID, stoppedAt, 7); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}

	got, err = repo.GetSession(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetSession after finish: %v", err)
	}
	if got.StoppedAt == nil || !got.StoppedAt.Equal(stoppedAt) {
		t.Errorf("StoppedAt = %v, want %v", got.StoppedAt, stoppedAt)
	}
	if got.StepCount != 7 {
		t.Errorf("StepCount = %d, want 7", got.StepCount)
	}
}

func TestGetSessionMissing(t *testing.T) {
	repo := newTestStore(t)

	got, err := repo.GetSession(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != nil {
		t.Errorf("GetSession = %+v for a missing ID, want nil", got)
	}
}

func TestInsertSessionUpsert(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	startedAt := time.Now().Truncate(time.Second)
	rec := testRecord("2025-03-14_15-09-26", startedAt)
	if err := repo.InsertSession(ctx, rec); err != nil {
		t.Fatalf("InsertSession: %v", err)
	}
	if err := repo.FinishSession(ctx, rec.ID, startedAt.Add(time.Minute), 3); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}

	// Re-inserting the same ID resets the finished state.
	rec.PageName = "Search"
	if err := repo.InsertSession(ctx, rec); err != nil {
		t.Fatalf("re-InsertSession: %v", err)
	}

	got, err := repo.GetSession(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.PageName != "Search" {
		t.Errorf("PageName = %q after upsert, want Search", got.PageName)
	}
	if got.StoppedAt != nil || got.StepCount != 0 {
		t.Errorf("upsert did not reset finish state: stopped_at=%v steps=%d", got.StoppedAt, got.StepCount)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Truncate(time.Second)
	ids := []string{"a", "b", "c"}
	for i, id := range ids {
		if err := repo.InsertSession(ctx, testRecord(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("InsertSession(%s): %v", id, err)
		}
	}

	records, err := repo.ListSessions(ctx, 2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListSessions returned %d records, want 2", len(records))
	}
	if records[0].ID != "c" || records[1].ID != "b" {
		t.Errorf("ListSessions order = [%s, %s], want newest first [c, b]", records[0].ID, records[1].ID)
	}

	all, err := repo.ListSessions(ctx, 0)
	if err != nil {
		t.Fatalf("ListSessions with default limit: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListSessions with default limit returned %d records, want 3", len(all))
	}
}

func TestPing(t *testing.T) {
	repo := newTestStore(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
