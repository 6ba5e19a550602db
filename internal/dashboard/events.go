package dashboard

import (
	"errors"
	"fmt"
)

type EventType string

const (
	YearChanged      EventType = "YearChanged"
	CategoryChanged  EventType = "CategoryChanged"
	EntityClicked    EventType = "EntityClicked"
	SelectionCleared EventType = "SelectionCleared"
	BrushChanged     EventType = "BrushChanged"
)

// Year controls addressed by YearChanged.
const (
	TargetDiverging = "diverging"
	TargetMap1      = "map1"
	TargetMap2      = "map2"
)

// Event is one user interaction. Only the fields of its Type are read.
type Event struct {
	Type   EventType `json:"type"`
	Target string    `json:"target,omitempty"`
	Year   int       `json:"year,omitempty"`
	Sex    string    `json:"sex,omitempty"`
	State  string    `json:"state,omitempty"` // "" is a click on the background
	From   string    `json:"from,omitempty"`
	To     string    `json:"to,omitempty"`
}

// ErrInvalidEvent wraps every rejection of a malformed event.
var ErrInvalidEvent = errors.New("invalid event")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEvent, fmt.Sprintf(format, args...))
}
