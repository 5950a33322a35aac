// Package viewer holds the state of one documentation view: the known API
// groups, the selected group and the backend base URL, plus the pure render
// step that turns that state into a widget configuration.
//
// A Viewer is mounted once. Mounting starts the single group list load; the
// completion is applied only while the same mount is still live, so a view
// that has been unmounted is never mutated by a late response.
package viewer

import (
	"context"
	"net/url"
	"strings"
	"sync"
)

// Option customizes a Viewer.
type Option func(*Viewer)

// WithListener registers fn to be called with a state snapshot after every
// applied mutation. fn runs outside the viewer lock.
func WithListener(fn func(State)) Option {
	return func(v *Viewer) { v.listener = fn }
}

// Viewer is the DocViewer state container.
type Viewer struct {
	opts     Options
	fetcher  Fetcher
	listener func(State)

	mu         sync.Mutex
	state      State
	pending    string // selection requested by the query string
	generation uint64
	mounted    bool
	unmounted  bool
	cancel     context.CancelFunc
}

// New creates an unmounted viewer selecting the configured default group.
func New(opts Options, fetcher Fetcher, options ...Option) *Viewer {
	opts = opts.withDefaults()
	v := &Viewer{
		opts:    opts,
		fetcher: fetcher,
		state: State{
			SelectedKey: opts.DefaultGroup,
			Groups:      []Group{},
			ServerURL:   opts.ServerURL,
			Phase:       PhaseLoading,
		},
	}
	for _, o := range options {
		o(v)
	}
	return v
}

// Options returns the normalized options the viewer was built with.
func (v *Viewer) Options() Options { return v.opts }

// Mount starts the one-time group list load. The query string is read once:
// a value for the selector parameter becomes the selection when the load
// succeeds. The returned channel is closed after the load result has been
// applied or discarded.
func (v *Viewer) Mount(ctx context.Context, query url.Values) (<-chan struct{}, error) {
	v.mu.Lock()
	if v.unmounted {
		v.mu.Unlock()
		return nil, ErrUnmounted
	}
	if v.mounted {
		v.mu.Unlock()
		return nil, ErrAlreadyMounted
	}
	v.mounted = true
	v.generation++
	gen := v.generation
	v.pending = strings.TrimSpace(query.Get(v.opts.QueryParam))
	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		if v.fetcher == nil {
			v.OnLoadFailed(gen, errNoFetcher)
			return
		}
		groups, err := v.fetcher.FetchGroups(fetchCtx)
		if err != nil {
			v.OnLoadFailed(gen, err)
			return
		}
		v.OnDataLoaded(gen, groups)
	}()
	return done, nil
}

// Generation returns the current mount generation. Completions carrying an
// older generation are ignored.
func (v *Viewer) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generation
}

// OnDataLoaded replaces the group list with groups and applies the pending
// query-string selection. It reports whether the result was applied.
func (v *Viewer) OnDataLoaded(gen uint64, groups []Group) bool {
	v.mu.Lock()
	if !v.liveLocked(gen) {
		v.mu.Unlock()
		return false
	}
	items := make([]Group, len(groups))
	copy(items, groups)
	v.state.Groups = items
	v.state.Phase = PhaseLoaded
	v.state.Err = ""
	if v.pending != "" {
		v.state.SelectedKey = v.pending
		v.pending = ""
	}
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
	return true
}

// OnLoadFailed records a failed load. The group list stays empty and the
// selection keeps its pre-load value.
func (v *Viewer) OnLoadFailed(gen uint64, err error) bool {
	v.mu.Lock()
	if !v.liveLocked(gen) {
		v.mu.Unlock()
		return false
	}
	v.state.Phase = PhaseFailed
	if err != nil {
		v.state.Err = err.Error()
	}
	v.pending = ""
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
	return true
}

// OnSelectionChanged selects the group with the given id. The id is not
// checked against the loaded groups; the backend decides what exists.
func (v *Viewer) OnSelectionChanged(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptySelection
	}

	v.mu.Lock()
	if v.unmounted {
		v.mu.Unlock()
		return ErrUnmounted
	}
	v.state.SelectedKey = id
	// An explicit choice wins over a query-string value still waiting for the load.
	v.pending = ""
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
	return nil
}

// Unmount cancels an in-flight load and detaches the viewer. It is safe to
// call more than once.
func (v *Viewer) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted {
		return
	}
	v.unmounted = true
	v.mounted = false
	v.generation++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// State returns a copy of the current state.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Render renders the current state.
func (v *Viewer) Render() View {
	return Render(v.State(), v.opts)
}

func (v *Viewer) liveLocked(gen uint64) bool {
	return v.mounted && !v.unmounted && gen == v.generation
}

func (v *Viewer) snapshotLocked() State {
	s := v.state
	s.Groups = make([]Group, len(v.state.Groups))
	copy(s.Groups, v.state.Groups)
	return s
}

func (v *Viewer) notify(s State) {
	if v.listener != nil {
		v.listener(s)
	}
}
