package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestSelection_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Path: filepath.Join(t.TempDir(), "state", "state.sqlite")}

	if _, ok, err := s.LoadSelection(ctx); err != nil || ok {
		t.Fatalf("expected no selection in a fresh store, ok=%v err=%v", ok, err)
	}

	if err := s.SaveSelection(ctx, 7, true); err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	if err := s.SaveSelection(ctx, 9, true); err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	id, ok, err := s.LoadSelection(ctx)
	if err != nil || !ok || id != 9 {
		t.Fatalf("LoadSelection()=(%d, %v, %v), want (9, true, nil)", id, ok, err)
	}

	if err := s.SaveSelection(ctx, 0, false); err != nil {
		t.Fatalf("SaveSelection(clear): %v", err)
	}
	if _, ok, err := s.LoadSelection(ctx); err != nil || ok {
		t.Fatalf("expected selection removed, ok=%v err=%v", ok, err)
	}
}

func TestSelection_CorruptValueReadsAsNone(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Path: filepath.Join(t.TempDir(), "state.sqlite")}

	db, err := s.open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO session_meta(k, v) VALUES(?, ?)`, metaSelectedWishlist, "not-a-number"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_ = db.Close()

	if _, ok, err := s.LoadSelection(ctx); err != nil || ok {
		t.Fatalf("expected corrupt value to read as none, ok=%v err=%v", ok, err)
	}
}

func TestActivity_NewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Path: filepath.Join(t.TempDir(), "state.sqlite")}
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	entries := []Activity{
		{At: base, Op: "create", WishlistID: 1, OK: true},
		{At: base.Add(time.Second), Op: "move", WishlistID: 1, ProductID: 5, OK: true},
		{At: base.Add(2 * time.Second), Op: "delete", WishlistID: 1, ProductID: 8, OK: false, Message: "Item not found"},
	}
	for _, a := range entries {
		if err := s.AppendActivity(ctx, a); err != nil {
			t.Fatalf("AppendActivity: %v", err)
		}
	}

	got, err := s.RecentActivity(ctx, 2)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Op != "delete" || got[0].OK || got[0].Message != "Item not found" || got[0].ProductID != 8 {
		t.Fatalf("unexpected newest entry: %+v", got[0])
	}
	if got[1].Op != "move" || !got[1].At.Equal(base.Add(time.Second)) {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
}

func TestStore_EmptyPathIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var s Store
	if err := s.SaveSelection(ctx, 1, true); err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	if _, ok, err := s.LoadSelection(ctx); err != nil || ok {
		t.Fatalf("LoadSelection: ok=%v err=%v", ok, err)
	}
	if err := s.AppendActivity(ctx, Activity{Op: "list"}); err != nil {
		t.Fatalf("AppendActivity: %v", err)
	}
	got, err := s.RecentActivity(ctx, 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("RecentActivity=(%v, %v)", got, err)
	}
}

func TestDB_OneHandleServesManyCalls(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Path: filepath.Join(t.TempDir(), "state.sqlite")}
	db, err := s.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := db.AppendActivity(ctx, Activity{Op: "move", WishlistID: 1, ProductID: int64(i), OK: true}); err != nil {
				t.Errorf("AppendActivity: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if err := db.SaveSelection(ctx, 4, true); err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := s.RecentActivity(ctx, 100)
	if err != nil || len(got) != 20 {
		t.Fatalf("RecentActivity: %d entries, err=%v", len(got), err)
	}
	if id, ok, err := s.LoadSelection(ctx); err != nil || !ok || id != 4 {
		t.Fatalf("LoadSelection()=(%d, %v, %v)", id, ok, err)
	}
}

func TestDB_EmptyPathIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Store{}.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := db.AppendActivity(ctx, Activity{Op: "list"}); err != nil {
		t.Fatalf("AppendActivity: %v", err)
	}
	if got, err := db.RecentActivity(ctx, 5); err != nil || len(got) != 0 {
		t.Fatalf("RecentActivity=(%v, %v)", got, err)
	}
}
