package card

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/yildizm/errcard/internal/logger"
	"github.com/yildizm/errcard/internal/prefs"
)

// Listener is notified with the new state after every dispatch
type Listener func(state ViewState)

// Store serializes dispatches for one mounted card and notifies subscribers
type Store struct {
	mu        sync.Mutex
	id        string
	state     ViewState
	prefs     prefs.Store
	log       *logger.Logger
	listeners map[int]Listener
	nextID    int
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithPreferences injects the store that remembers showContext
func WithPreferences(p prefs.Store) StoreOption {
	return func(s *Store) {
		s.prefs = p
	}
}

// WithLogger sets the logger used for persistence failures
func WithLogger(l *logger.Logger) StoreOption {
	return func(s *Store) {
		s.log = l
	}
}

// WithInitialState overrides the non-persisted defaults, for example from configuration
func WithInitialState(state ViewState) StoreOption {
	return func(s *Store) {
		s.state = state
	}
}

// NewStore mounts a new card state. showContext comes from the preference
// store when it holds a value.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		id:        uuid.NewString(),
		state:     DefaultState(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prefs == nil {
		s.prefs = prefs.NewMemoryStore()
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.WithComponent("card")

	if value, ok := s.prefs.ShowContext(); ok {
		s.state.ShowContext = value
	}
	s.log.DebugWithFields("card mounted", []logger.Field{
		logger.F("card_id", s.id),
		logger.F("show_context", s.state.ShowContext),
	})
	return s
}

// ID identifies this mount
func (s *Store) ID() string {
	return s.id
}

// State returns a snapshot of the current state
func (s *Store) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsExpanded reports showDetails && !loading
func (s *Store) IsExpanded() bool {
	return s.State().IsExpanded()
}

// Mode returns the current stack trace display mode
func (s *Store) Mode() DisplayMode {
	return s.State().Mode()
}

// Dispatch applies an action and notifies subscribers
func (s *Store) Dispatch(action Action) ViewState {
	s.mu.Lock()
	s.state = Apply(s.state, action)
	next := s.state
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if action.Type == ActionSetShowContext {
		if err := s.prefs.SetShowContext(action.Value); err != nil {
			s.log.WarnWithFields("failed to persist show context preference",
				[]logger.Field{logger.F("card_id", s.id), logger.Error(err)})
		}
	}

	for _, fn := range listeners {
		fn(next)
	}
	return next
}

// SetShowDetails shows or hides the card body
func (s *Store) SetShowDetails(value bool) {
	s.Dispatch(Action{Type: ActionSetShowDetails, Value: value})
}

// SetShowAsText selects the plain-text display; true clears the JSON display
func (s *Store) SetShowAsText(value bool) {
	s.Dispatch(Action{Type: ActionSetShowAsText, Value: value})
}

// SetShowAsJSON selects the JSON display; true clears the text display
func (s *Store) SetShowAsJSON(value bool) {
	s.Dispatch(Action{Type: ActionSetShowAsJSON, Value: value})
}

// SetShowContext toggles the context panel, remembers the choice and expands the card
func (s *Store) SetShowContext(value bool) {
	s.Dispatch(Action{Type: ActionSetShowContext, Value: value})
}

// SetShowAllFrames toggles vendor frames and expands the card
func (s *Store) SetShowAllFrames(value bool) {
	s.Dispatch(Action{Type: ActionSetShowAllFrames, Value: value})
}

// SetLoading mirrors the event loading flag
func (s *Store) SetLoading(value bool) {
	s.Dispatch(Action{Type: ActionSetLoading, Value: value})
}

// SetShowFixModal opens or closes the fix prompt
func (s *Store) SetShowFixModal(value bool) {
	s.Dispatch(Action{Type: ActionSetShowFixModal, Value: value})
}

// Restore replaces the whole state without going through the setters.
// Nothing is persisted.
func (s *Store) Restore(state ViewState) {
	s.mu.Lock()
	s.state = state
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// Subscribe registers fn for state changes. Listeners run outside the lock
// and may read the store.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) snapshotListeners() []Listener {
	ids := lo.Keys(s.listeners)
	slices.Sort(ids)
	return lo.Map(ids, func(id int, _ int) Listener { return s.listeners[id] })
}
