package selection

// HighlightStyle is how a view draws one state.
type HighlightStyle int

const (
	HighlightNone HighlightStyle = iota
	HighlightDefault
	HighlightSelected
)

func (h HighlightStyle) String() string {
	switch h {
	case HighlightDefault:
		return "default"
	case HighlightSelected:
		return "selected"
	default:
		return "none"
	}
}

// MarshalText lets the style appear as a string in JSON.
func (h HighlightStyle) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// Highlighted reports whether the style draws emphasis.
func (h HighlightStyle) Highlighted() bool { return h != HighlightNone }

// DefaultHighlights are emphasised while nothing is selected.
var DefaultHighlights = []string{"Kuala Lumpur", "Kelantan"}

// Highlight maps a state and the current selection to a style. With no
// selection the DefaultHighlights are emphasised; otherwise only the
// selected state is.
func Highlight(state string, sel Selection) HighlightStyle {
	if sel.IsNone() {
		for _, d := range DefaultHighlights {
			if d == state {
				return HighlightDefault
			}
		}
		return HighlightNone
	}
	if sel.State() == state {
		return HighlightSelected
	}
	return HighlightNone
}

// HighlightedStates lists the states a view emphasises for sel.
func HighlightedStates(sel Selection) []string {
	if sel.IsNone() {
		return append([]string(nil), DefaultHighlights...)
	}
	return []string{sel.State()}
}

// MapOpacity is the fill opacity of a state on the choropleth maps: every
// state is opaque while nothing is selected, otherwise only the selected
// one is.
func MapOpacity(state string, sel Selection) float64 {
	if sel.IsNone() || Highlight(state, sel) == HighlightSelected {
		return 1
	}
	return 0.2
}
