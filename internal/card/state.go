// Package card implements the exception card: a small view-state store and
// the renderer that composes the card from that state and the event data.
package card

// ViewState is the presentation state of one mounted card
type ViewState struct {
	ShowDetails   bool `json:"showDetails"`
	ShowAsText    bool `json:"showAsText"`
	ShowAsJSON    bool `json:"showAsJson"`
	ShowAllFrames bool `json:"showAllFrames"`
	ShowContext   bool `json:"showContext"`
	Loading       bool `json:"loading"`
	ShowFixModal  bool `json:"showFixModal"`
}

// DefaultState is the state of a freshly mounted card before preferences apply
func DefaultState() ViewState {
	return ViewState{
		ShowDetails: true,
		ShowContext: true,
		Loading:     true,
	}
}

// IsExpanded reports whether the card body is shown
func (s ViewState) IsExpanded() bool {
	return s.ShowDetails && !s.Loading
}

// DisplayMode selects the stack trace display
type DisplayMode int

const (
	DisplayGeneric DisplayMode = iota
	DisplayText
	DisplayJSON
	DisplayNone
)

// String returns the display mode name
func (m DisplayMode) String() string {
	switch m {
	case DisplayGeneric:
		return "generic"
	case DisplayText:
		return "text"
	case DisplayJSON:
		return "json"
	default:
		return "none"
	}
}

// Mode derives the display mode from the text/json flags.
// Both flags set cannot be reached through actions and selects no display.
func (s ViewState) Mode() DisplayMode {
	switch {
	case !s.ShowAsText && !s.ShowAsJSON:
		return DisplayGeneric
	case s.ShowAsText && !s.ShowAsJSON:
		return DisplayText
	case !s.ShowAsText && s.ShowAsJSON:
		return DisplayJSON
	default:
		return DisplayNone
	}
}

// ActionType names a state transition
type ActionType int

const (
	ActionSetShowDetails ActionType = iota
	ActionSetShowAsText
	ActionSetShowAsJSON
	ActionSetShowContext
	ActionSetShowAllFrames
	ActionSetLoading
	ActionSetShowFixModal
)

// String returns the action name
func (a ActionType) String() string {
	switch a {
	case ActionSetShowDetails:
		return "setShowDetails"
	case ActionSetShowAsText:
		return "setShowAsText"
	case ActionSetShowAsJSON:
		return "setShowAsJson"
	case ActionSetShowContext:
		return "setShowContext"
	case ActionSetShowAllFrames:
		return "setShowAllFrames"
	case ActionSetLoading:
		return "setLoading"
	case ActionSetShowFixModal:
		return "setShowFixModal"
	default:
		return "unknown"
	}
}

// Action is a setter call with its argument
type Action struct {
	Type  ActionType
	Value bool
}

// Apply returns the state after the action. It is pure; persistence of
// showContext is the store's job.
func Apply(state ViewState, action Action) ViewState {
	switch action.Type {
	case ActionSetShowDetails:
		state.ShowDetails = action.Value
	case ActionSetShowAsText:
		state.ShowAsText = action.Value
		if action.Value {
			state.ShowAsJSON = false
		}
	case ActionSetShowAsJSON:
		state.ShowAsJSON = action.Value
		if action.Value {
			state.ShowAsText = false
		}
	case ActionSetShowContext:
		state.ShowContext = action.Value
		state.ShowDetails = true
	case ActionSetShowAllFrames:
		state.ShowAllFrames = action.Value
		state.ShowDetails = true
	case ActionSetLoading:
		state.Loading = action.Value
	case ActionSetShowFixModal:
		state.ShowFixModal = action.Value
	}
	return state
}
