package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "consensus.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// TestSQLiteStore_SaveLoad verifies the JSON payload round-trips through
// the database, including nested artifact and review records.
func TestSQLiteStore_SaveLoad(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	want := sampleTranscript("s1", time.Now().UTC())
	if err := st.SaveTranscript(ctx, want); err != nil {
		t.Fatalf("SaveTranscript: %v", err)
	}

	got, err := st.LoadTranscript(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadTranscript: %v", err)
	}
	if got.SessionID != "s1" || got.Mode != "deep" || got.Status != "done" {
		t.Errorf("loaded = %+v", got)
	}
	if got.Report != want.Report || got.Synthesizer != want.Synthesizer {
		t.Errorf("report = %q synthesizer = %q, want %q and %q",
			got.Report, got.Synthesizer, want.Report, want.Synthesizer)
	}
	if len(got.Artifacts) != 2 {
		t.Fatalf("got %d artifacts, want 2", len(got.Artifacts))
	}
	if got.Artifacts[1].Stage != "revised" || got.Artifacts[1].Text != "rev-claude" {
		t.Errorf("artifact 1 = %+v", got.Artifacts[1])
	}
	if len(got.Reviews) != 1 || got.Reviews[0].Reviewer != "claude" {
		t.Errorf("reviews = %+v", got.Reviews)
	}
}

// TestSQLiteStore_Upsert verifies saving a session twice keeps the latest
// transcript.
func TestSQLiteStore_Upsert(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first := sampleTranscript("s1", time.Now().UTC())
	if err := st.SaveTranscript(ctx, first); err != nil {
		t.Fatalf("SaveTranscript: %v", err)
	}

	second := first
	second.Status = "failed"
	second.Error = "synthesis call failed"
	second.Report = ""
	if err := st.SaveTranscript(ctx, second); err != nil {
		t.Fatalf("SaveTranscript upsert: %v", err)
	}

	got, err := st.LoadTranscript(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadTranscript: %v", err)
	}
	if got.Status != "failed" || got.Error != "synthesis call failed" {
		t.Errorf("loaded = %+v, want the second transcript", got)
	}

	ids, err := st.ListTranscripts(ctx)
	if err != nil {
		t.Fatalf("ListTranscripts: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("got %d ids after upsert, want 1", len(ids))
	}
}

// TestSQLiteStore_NotFound verifies the sentinel for unknown sessions.
func TestSQLiteStore_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)
	_, err := st.LoadTranscript(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_ListOrder verifies listing is most recent first.
func TestSQLiteStore_ListOrder(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	st.SaveTranscript(ctx, sampleTranscript("oldest", base.Add(-2*time.Hour)))
	st.SaveTranscript(ctx, sampleTranscript("newest", base))
	st.SaveTranscript(ctx, sampleTranscript("middle", base.Add(-time.Hour)))

	ids, err := st.ListTranscripts(ctx)
	if err != nil {
		t.Fatalf("ListTranscripts: %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

// TestSQLiteStore_Closed verifies operations fail cleanly after Close.
func TestSQLiteStore_Closed(t *testing.T) {
	st := newTestSQLiteStore(t)
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := st.SaveTranscript(context.Background(), sampleTranscript("s1", time.Now())); err == nil {
		t.Error("SaveTranscript on closed store should fail")
	}
}
