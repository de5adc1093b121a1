package corpus

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestRecordAndListRuns(t *testing.T) {
	_, s := setupTestDB(t)
	ctx := context.Background()

	seed := uint64(1<<63 + 5) // does not fit in an int64
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seededID, err := s.RecordRun(ctx, Run{
		Source:       "doc",
		WindowLength: 3,
		Seed:         &seed,
		SeedText:     "abc",
		TargetLength: 10,
		Output:       "abcabcabca",
		CreatedAt:    created,
	})
	if err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	unseededID, err := s.RecordRun(ctx, Run{Source: "file.txt", WindowLength: 1, Output: "x"})
	if err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Id != unseededID || runs[1].Id != seededID {
		t.Errorf("expected newest run first, got ids %d, %d", runs[0].Id, runs[1].Id)
	}
	if runs[0].Seed != nil {
		t.Errorf("expected nil seed for the unseeded run, got %d", *runs[0].Seed)
	}
	if runs[0].CreatedAt.IsZero() {
		t.Error("expected a default creation time")
	}

	got := runs[1]
	if got.Seed == nil || *got.Seed != seed {
		t.Errorf("expected seed %d to round trip, got %v", seed, got.Seed)
	}
	if got.Source != "doc" || got.WindowLength != 3 || got.SeedText != "abc" ||
		got.TargetLength != 10 || got.Output != "abcabcabca" || !got.CreatedAt.Equal(created) {
		t.Errorf("got unexpected run: %+v", got)
	}
}

func TestPruneRuns(t *testing.T) {
	_, s := setupTestDB(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		id, err := s.RecordRun(ctx, Run{Source: "doc", WindowLength: 2, Output: fmt.Sprint(i)})
		if err != nil {
			t.Fatal(err)
		}
		last = id
	}

	removed, err := s.PruneRuns(ctx, 2)
	if err != nil {
		t.Fatalf("PruneRuns() failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 runs removed, got %d", removed)
	}

	runs, _ := s.ListRuns(ctx, 10)
	if len(runs) != 2 || runs[0].Id != last {
		t.Errorf("expected the 2 newest runs to remain, got %+v", runs)
	}

	stats, _ := s.GetStats(ctx)
	if stats.Runs != 2 {
		t.Errorf("expected 2 runs in stats, got %d", stats.Runs)
	}
}
