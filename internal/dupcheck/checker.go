package dupcheck

import (
	"context"
	"sync"
	"time"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// DefaultDebounce is how long a draft must sit unchanged before a check is
// dispatched. Keystrokes inside the window restart it.
const DefaultDebounce = 800 * time.Millisecond

// Snapshot is the observable state of a Checker at one point in time.
type Snapshot struct {
	Duplicates []models.Match
	IsChecking bool
	Err        error
	HasChecked bool
}

// CheckFunc runs one duplicate check. Service.Check satisfies it.
type CheckFunc func(ctx context.Context, draft models.SubmissionDraft) ([]models.Match, error)

// Checker drives duplicate checks for a form being edited. Each Update
// restarts a debounce timer; when the timer fires the draft is checked in the
// background and the snapshot updated. Checks are sequenced so a slow
// response for an old draft can never overwrite the result for a newer one.
type Checker struct {
	mu sync.Mutex

	check    CheckFunc
	debounce time.Duration

	timer      *time.Timer
	pendingKey string
	settledKey string // key of the last check whose result is applied
	dispatched uint64 // sequence of the newest dispatched check
	snap       Snapshot
	closed     bool
}

// NewChecker creates a checker with the default debounce window.
func NewChecker(check CheckFunc) *Checker {
	return NewCheckerWithDebounce(check, DefaultDebounce)
}

// NewCheckerWithDebounce creates a checker with an explicit debounce window.
func NewCheckerWithDebounce(check CheckFunc, debounce time.Duration) *Checker {
	return &Checker{
		check:    check,
		debounce: debounce,
		snap:     Snapshot{Duplicates: []models.Match{}},
	}
}

// Update feeds the current draft into the checker. Drafts missing a title or
// venue cancel any pending check and reset the snapshot to idle. A draft
// whose composite key matches the applied result is a no-op, so cursor moves
// and re-renders never re-trigger a check.
func (c *Checker) Update(draft models.SubmissionDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if !draft.HasRequiredFields() {
		c.stopTimerLocked()
		c.pendingKey = ""
		c.settledKey = ""
		c.snap = Snapshot{Duplicates: []models.Match{}}
		return
	}

	key := draft.CacheKey()
	if key == c.settledKey && c.snap.HasChecked {
		return
	}
	if key == c.pendingKey && c.timer != nil {
		// Same draft already waiting its turn; let the timer run down.
		return
	}

	c.pendingKey = key
	c.snap.IsChecking = true
	c.snap.Err = nil

	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.debounce, func() {
		c.dispatch(draft, key)
	})
}

// dispatch runs when the debounce window elapses without another edit.
func (c *Checker) dispatch(draft models.SubmissionDraft, key string) {
	c.mu.Lock()
	if c.closed || key != c.pendingKey {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.dispatched++
	seq := c.dispatched
	c.mu.Unlock()

	matches, err := c.check(context.Background(), draft)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer check was dispatched while this one was in flight; its result
	// supersedes ours regardless of arrival order.
	if seq != c.dispatched || c.closed {
		return
	}

	c.settledKey = key
	c.snap.HasChecked = true
	c.snap.IsChecking = c.timer != nil
	if err != nil {
		c.snap.Err = err
		c.snap.Duplicates = []models.Match{}
		return
	}
	c.snap.Err = nil
	if matches == nil {
		matches = []models.Match{}
	}
	c.snap.Duplicates = matches
}

// Snapshot returns a copy of the current state.
func (c *Checker) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.snap
	snap.Duplicates = make([]models.Match, len(c.snap.Duplicates))
	copy(snap.Duplicates, c.snap.Duplicates)
	return snap
}

// Reset cancels any pending check and returns the checker to its initial
// state, forgetting the applied result.
func (c *Checker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.pendingKey = ""
	c.settledKey = ""
	c.dispatched++ // orphan any in-flight check
	c.snap = Snapshot{Duplicates: []models.Match{}}
}

// Close stops the checker permanently.
func (c *Checker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.closed = true
}

func (c *Checker) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
