package card

import (
	"github.com/yildizm/errcard/internal/common"
	"github.com/yildizm/errcard/internal/stacktrace"
)

// Snapshot is a render-independent view of a card used by the static formatters
type Snapshot struct {
	CardID               string                     `json:"card_id"`
	Label                string                     `json:"label,omitempty"`
	State                ViewState                  `json:"state"`
	DisplayMode          string                     `json:"display_mode"`
	Expanded             bool                       `json:"expanded"`
	Issue                *common.Issue              `json:"issue,omitempty"`
	EventID              string                     `json:"event_id,omitempty"`
	Timestamp            string                     `json:"timestamp,omitempty"`
	TimestampLabel       string                     `json:"timestamp_label,omitempty"`
	Exceptions           []common.Exception         `json:"exceptions"`
	Attributes           common.ExceptionAttributes `json:"attributes"`
	AdditionalProperties map[string]interface{}     `json:"additional_properties,omitempty"`
	SessionID            string                     `json:"session_id,omitempty"`
	ShowFixButton        bool                       `json:"show_fix_button"`
	Recording            Recording                  `json:"recording"`
	Traceback            string                     `json:"traceback,omitempty"`
}

// Snapshot captures the card as currently configured
func (c *Card) Snapshot() Snapshot {
	state := c.store.State()
	props := c.Properties()

	snap := Snapshot{
		CardID:               c.store.ID(),
		Label:                c.props.Label,
		State:                state,
		DisplayMode:          state.Mode().String(),
		Expanded:             state.IsExpanded(),
		Issue:                c.props.Issue,
		Timestamp:            props.Timestamp,
		TimestampLabel:       c.TimestampLabel(),
		Exceptions:           props.ExceptionList,
		Attributes:           props.ExceptionAttributes,
		AdditionalProperties: props.AdditionalProperties,
		SessionID:            props.SessionID,
		ShowFixButton:        ShowFixButton(props.ExceptionList),
		Recording:            c.Recording(),
	}
	if c.props.Event != nil {
		snap.EventID = c.props.Event.UUID
	}
	if !state.Loading {
		snap.Traceback = stacktrace.FormatText(stacktrace.Props{
			Exceptions:    props.ExceptionList,
			ShowAllFrames: state.ShowAllFrames,
			Width:         c.width,
		})
	}
	return snap
}
