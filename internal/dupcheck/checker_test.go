package dupcheck

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

const testDebounce = 20 * time.Millisecond

// settleWait is long enough for a debounce window plus check dispatch to
// complete on a loaded CI machine.
const settleWait = 10 * testDebounce

func eventDraft(title, venue string) models.SubmissionDraft {
	return models.SubmissionDraft{Kind: models.KindEvent, Title: title, Venue: venue}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(settleWait)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestCheckerInitialState(t *testing.T) {
	c := NewCheckerWithDebounce(func(context.Context, models.SubmissionDraft) ([]models.Match, error) {
		return nil, nil
	}, testDebounce)
	defer c.Close()

	snap := c.Snapshot()
	if snap.HasChecked || snap.IsChecking || snap.Err != nil {
		t.Errorf("initial snapshot = %+v, want idle", snap)
	}
	if snap.Duplicates == nil || len(snap.Duplicates) != 0 {
		t.Errorf("initial duplicates = %v, want empty non-nil", snap.Duplicates)
	}
}

func TestCheckerBlankDraftNeverChecks(t *testing.T) {
	var calls atomic.Int32
	c := NewCheckerWithDebounce(func(context.Context, models.SubmissionDraft) ([]models.Match, error) {
		calls.Add(1)
		return nil, nil
	}, testDebounce)
	defer c.Close()

	c.Update(eventDraft("Ladies Night", ""))
	c.Update(eventDraft("", "The Attic"))
	c.Update(eventDraft("   ", "\t"))

	time.Sleep(settleWait)

	if n := calls.Load(); n != 0 {
		t.Errorf("check func called %d times, want 0", n)
	}
	snap := c.Snapshot()
	if snap.HasChecked || snap.IsChecking {
		t.Errorf("snapshot = %+v, want idle with HasChecked=false", snap)
	}
}

func TestCheckerBlankDraftCancelsPending(t *testing.T) {
	var calls atomic.Int32
	c := NewCheckerWithDebounce(func(context.Context, models.SubmissionDraft) ([]models.Match, error) {
		calls.Add(1)
		return nil, nil
	}, testDebounce)
	defer c.Close()

	c.Update(eventDraft("Ladies Night", "The Attic"))
	// Venue cleared before the debounce window elapses.
	c.Update(eventDraft("Ladies Night", ""))

	time.Sleep(settleWait)

	if n := calls.Load(); n != 0 {
		t.Errorf("check func called %d times, want 0", n)
	}
	if snap := c.Snapshot(); snap.IsChecking || snap.HasChecked {
		t.Errorf("snapshot = %+v, want idle", snap)
	}
}

func TestCheckerDebouncesRapidEdits(t *testing.T) {
	var calls atomic.Int32
	var lastTitle sync.Map
	c := NewCheckerWithDebounce(func(_ context.Context, d models.SubmissionDraft) ([]models.Match, error) {
		calls.Add(1)
		lastTitle.Store("title", d.Title)
		return []models.Match{}, nil
	}, testDebounce)
	defer c.Close()

	// Simulated typing: each keystroke lands inside the previous window.
	for _, title := range []string{"L", "La", "Lad", "Ladies Night"} {
		c.Update(eventDraft(title, "The Attic"))
		time.Sleep(testDebounce / 4)
	}

	waitFor(t, func() bool { return c.Snapshot().HasChecked })

	if n := calls.Load(); n != 1 {
		t.Errorf("check func called %d times, want 1", n)
	}
	if got, _ := lastTitle.Load("title"); got != "Ladies Night" {
		t.Errorf("checked title = %v, want final draft", got)
	}
}

func TestCheckerIdenticalKeyIsNoOp(t *testing.T) {
	var calls atomic.Int32
	c := NewCheckerWithDebounce(func(context.Context, models.SubmissionDraft) ([]models.Match, error) {
		calls.Add(1)
		return []models.Match{{ID: "a", Confidence: 90}}, nil
	}, testDebounce)
	defer c.Close()

	c.Update(eventDraft("Ladies Night", "The Attic"))
	waitFor(t, func() bool { return c.Snapshot().HasChecked })

	// Same composite key again: description differs but is not part of it.
	again := eventDraft("Ladies Night", "The Attic")
	again.Description = "now with a longer blurb"
	c.Update(again)

	time.Sleep(settleWait)

	if n := calls.Load(); n != 1 {
		t.Errorf("check func called %d times, want 1", n)
	}
	snap := c.Snapshot()
	if len(snap.Duplicates) != 1 || snap.IsChecking {
		t.Errorf("snapshot after no-op update = %+v", snap)
	}
}

func TestCheckerTrimEquivalentKeysAreNoOp(t *testing.T) {
	var calls atomic.Int32
	c := NewCheckerWithDebounce(func(context.Context, models.SubmissionDraft) ([]models.Match, error) {
		calls.Add(1)
		return []models.Match{}, nil
	}, testDebounce)
	defer c.Close()

	c.Update(eventDraft("Ladies Night", "The Attic"))
	waitFor(t, func() bool { return c.Snapshot().HasChecked })

	c.Update(eventDraft("  Ladies Night  ", "The Attic "))
	time.Sleep(settleWait)

	if n := calls.Load(); n != 1 {
		t.Errorf("check func called %d times, want 1", n)
	}
}

func TestCheckerStaleResponseDropped(t *testing.T) {
	slowRelease := make(chan struct{})
	c := NewCheckerWithDebounce(func(_ context.Context, d models.SubmissionDraft) ([]models.Match, error) {
		if d.Title == "Slow Draft" {
			<-slowRelease
			return []models.Match{{ID: "stale", Title: "Stale Result", Confidence: 95}}, nil
		}
		return []models.Match{{ID: "fresh", Title: "Fresh Result", Confidence: 80}}, nil
	}, testDebounce)
	defer c.Close()

	c.Update(eventDraft("Slow Draft", "The Attic"))
	// Wait until the slow check is actually in flight, then edit the draft.
	waitFor(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.dispatched == 1
	})
	c.Update(eventDraft("Fresh Draft", "The Attic"))
	waitFor(t, func() bool { return c.Snapshot().HasChecked })

	// Let the stale response arrive after the fresh one settled.
	close(slowRelease)
	time.Sleep(settleWait)

	snap := c.Snapshot()
	if len(snap.Duplicates) != 1 || snap.Duplicates[0].ID != "fresh" {
		t.Errorf("duplicates = %+v, want only the fresh result", snap.Duplicates)
	}
}

func TestCheckerErrorSnapshot(t *testing.T) {
	checkErr := errors.New("Rate limit exceeded. Please wait a moment and try again.")
	c := NewCheckerWithDebounce(func(context.Context, models.SubmissionDraft) ([]models.Match, error) {
		return nil, checkErr
	}, testDebounce)
	defer c.Close()

	c.Update(eventDraft("Ladies Night", "The Attic"))
	waitFor(t, func() bool { return c.Snapshot().HasChecked })

	snap := c.Snapshot()
	if !errors.Is(snap.Err, checkErr) {
		t.Errorf("snapshot err = %v, want the check error", snap.Err)
	}
	if len(snap.Duplicates) != 0 {
		t.Errorf("duplicates = %v, want empty on error", snap.Duplicates)
	}
	if snap.IsChecking {
		t.Error("IsChecking still true after completion")
	}
}

func TestCheckerErrorClearedOnNextSuccess(t *testing.T) {
	var failFirst atomic.Bool
	failFirst.Store(true)
	c := NewCheckerWithDebounce(func(context.Context, models.SubmissionDraft) ([]models.Match, error) {
		if failFirst.Swap(false) {
			return nil, errors.New("temporary outage")
		}
		return []models.Match{}, nil
	}, testDebounce)
	defer c.Close()

	c.Update(eventDraft("Ladies Night", "The Attic"))
	waitFor(t, func() bool { return c.Snapshot().Err != nil })

	c.Update(eventDraft("Girls Night Out", "The Attic"))
	waitFor(t, func() bool { return c.Snapshot().HasChecked && c.Snapshot().Err == nil })

	if snap := c.Snapshot(); snap.Err != nil {
		t.Errorf("err = %v, want cleared after successful retry", snap.Err)
	}
}

func TestCheckerReset(t *testing.T) {
	var calls atomic.Int32
	c := NewCheckerWithDebounce(func(context.Context, models.SubmissionDraft) ([]models.Match, error) {
		calls.Add(1)
		return []models.Match{{ID: "a", Confidence: 90}}, nil
	}, testDebounce)
	defer c.Close()

	draft := eventDraft("Ladies Night", "The Attic")
	c.Update(draft)
	waitFor(t, func() bool { return c.Snapshot().HasChecked })

	c.Reset()
	if snap := c.Snapshot(); snap.HasChecked || len(snap.Duplicates) != 0 {
		t.Errorf("snapshot after reset = %+v, want initial", snap)
	}

	// Reset forgets the settled key, so the same draft checks again.
	c.Update(draft)
	waitFor(t, func() bool { return c.Snapshot().HasChecked })

	if n := calls.Load(); n != 2 {
		t.Errorf("check func called %d times, want 2", n)
	}
}
