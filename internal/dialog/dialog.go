// Package dialog models the shared lifecycle of the add/edit dialogs. Every
// dialog loads dependent data first, then accepts a submission, and can be
// cancelled from anywhere.
package dialog

import (
	"fmt"
	"sync"

	"talanch-backoffice/internal/selection"
)

type State string

const (
	StateClosed     State = "closed"
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// allowedTransitions maps each state to the states it may move to. Closing
// is always permitted and handled separately.
var allowedTransitions = map[State][]State{
	StateClosed:     {StateLoading},
	StateLoading:    {StateReady, StateFailed},
	StateReady:      {StateSubmitting},
	StateSubmitting: {StateSucceeded, StateFailed},
	// A failed dialog stays open: the user may retry the fetch or resubmit.
	StateFailed:    {StateLoading, StateSubmitting},
	StateSucceeded: {},
}

type Dialog struct {
	mu        sync.Mutex
	state     State
	selection *selection.Selection
}

func New() *Dialog {
	return &Dialog{
		state:     StateClosed,
		selection: selection.New(),
	}
}

func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Selection is the sub-state owned by this dialog.
func (d *Dialog) Selection() *selection.Selection {
	return d.selection
}

func (d *Dialog) transition(to State) error {
	for _, allowed := range allowedTransitions[d.state] {
		if allowed == to {
			d.state = to
			return nil
		}
	}
	return fmt.Errorf("dialog: cannot go from %s to %s", d.state, to)
}

// Open starts the dependent-data fetch and clears any previous selection.
func (d *Dialog) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.transition(StateLoading); err != nil {
		return err
	}
	d.selection.Reset()
	return nil
}

func (d *Dialog) FetchSucceeded() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transition(StateReady)
}

func (d *Dialog) FetchFailed() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transition(StateFailed)
}

// Retry re-runs the dependent fetch after a failure.
func (d *Dialog) Retry() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transition(StateLoading)
}

func (d *Dialog) Submit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transition(StateSubmitting)
}

func (d *Dialog) Succeed() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transition(StateSucceeded)
}

func (d *Dialog) Fail() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transition(StateFailed)
}

// Close cancels from any state and discards in-progress edits.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = StateClosed
	d.selection.Reset()
}

// Registry hands out dialogs keyed by session and dialog name, so each
// admin's dialogs keep their own state.
type Registry struct {
	mu      sync.Mutex
	dialogs map[string]*Dialog
}

func NewRegistry() *Registry {
	return &Registry{dialogs: make(map[string]*Dialog)}
}

func (r *Registry) Get(key string) *Dialog {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.dialogs[key]; ok {
		return d
	}
	d := New()
	r.dialogs[key] = d
	return d
}

func (r *Registry) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dialogs, key)
}
