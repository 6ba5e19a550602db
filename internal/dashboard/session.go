// Package dashboard holds the per-session control state and turns user
// events into freshly derived views.
package dashboard

import (
	"sync"
	"time"

	"statsdash/internal/engine"
	"statsdash/internal/selection"
)

// Options are the settings shared by every session.
type Options struct {
	ScatterYear   int
	DivergingYear int
	MapYears      [2]int
	TopoURL       string
}

// Controls is the state of the dashboard's input controls.
type Controls struct {
	DivergingYear int       `json:"divergingYear"`
	MapYears      [2]int    `json:"mapYears"`
	Sex           string    `json:"sex"`
	BrushFrom     time.Time `json:"-"`
	BrushTo       time.Time `json:"-"`
}

// Session is one client's dashboard. Update is the only way its state
// changes; all calls are serialized.
type Session struct {
	mu       sync.Mutex
	opts     Options
	controls Controls
	sel      *selection.Coordinator
}

func NewSession(opts Options) *Session {
	return &Session{
		opts: opts,
		controls: Controls{
			DivergingYear: opts.DivergingYear,
			MapYears:      opts.MapYears,
			Sex:           engine.SexBoth,
		},
		sel: selection.NewCoordinator(),
	}
}

// Selection exposes the session's coordinator for subscriptions.
func (s *Session) Selection() *selection.Coordinator { return s.sel }

// Close ends the session's selection streams.
func (s *Session) Close() { s.sel.Close() }

func (s *Session) Controls() Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls
}

// Update applies ev. Invalid events leave the session unchanged and
// return an error wrapping ErrInvalidEvent.
func (s *Session) Update(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case YearChanged:
		if ev.Year <= 0 {
			return invalid("year %d", ev.Year)
		}
		switch ev.Target {
		case TargetDiverging, "":
			s.controls.DivergingYear = ev.Year
		case TargetMap1:
			s.controls.MapYears[0] = ev.Year
		case TargetMap2:
			s.controls.MapYears[1] = ev.Year
		default:
			return invalid("unknown year control %q", ev.Target)
		}
	case CategoryChanged:
		if !engine.ValidSex(ev.Sex) {
			return invalid("unknown sex %q", ev.Sex)
		}
		s.controls.Sex = ev.Sex
		// The brush range belongs to the previous series.
		s.controls.BrushFrom, s.controls.BrushTo = time.Time{}, time.Time{}
	case EntityClicked:
		s.sel.Toggle(selection.Of(ev.State))
	case SelectionCleared:
		s.sel.Clear()
	case BrushChanged:
		from, to, err := parseBrush(ev.From, ev.To)
		if err != nil {
			return err
		}
		s.controls.BrushFrom, s.controls.BrushTo = from, to
	default:
		return invalid("unknown event type %q", ev.Type)
	}
	return nil
}

func parseBrush(fromRaw, toRaw string) (from, to time.Time, err error) {
	if fromRaw != "" {
		if from, err = engine.ParseDate(fromRaw); err != nil {
			return from, to, invalid("brush start: %v", err)
		}
	}
	if toRaw != "" {
		if to, err = engine.ParseDate(toRaw); err != nil {
			return from, to, invalid("brush end: %v", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, invalid("brush end %s before start %s", toRaw, fromRaw)
	}
	return from, to, nil
}
