package listing

import "sync"

// Trigger turns visibility reports for a sentinel into load-more signals. It
// fires at most once per not-visible to visible transition of the observed
// target, and only when the gate allows it.
type Trigger struct {
	mu      sync.Mutex
	target  string
	visible bool
}

// NewTrigger returns a trigger with no target attached.
func NewTrigger() *Trigger {
	return &Trigger{}
}

// Observe attaches the trigger to target, detaching from any previous one.
// Re-observing the same target keeps its visibility. An empty target detaches.
func (t *Trigger) Observe(target string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if target == t.target {
		return
	}
	t.target = target
	t.visible = false
}

// Target returns the currently observed sentinel.
func (t *Trigger) Target() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// Update records the visibility of target and reports whether a continuation
// should be requested. Reports for a target other than the observed one are
// ignored. canLoad is consulted only on an entering transition; a transition
// that arrives while loading is consumed without firing.
func (t *Trigger) Update(target string, visible bool, canLoad func() bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if target == "" || target != t.target {
		return false
	}

	entering := visible && !t.visible
	t.visible = visible
	if !entering {
		return false
	}
	return canLoad == nil || canLoad()
}

// CanContinue is the gate used with Update: no fetch in flight and more pages remain.
func (s ListState) CanContinue() bool {
	return s.HasMore && !s.LoadingInitial && !s.LoadingMore
}
