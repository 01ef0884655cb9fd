package led

import "fmt"

type Transition int

const (
	TransitionNone Transition = iota
	TransitionFade
	TransitionChase
)

func (t Transition) String() string {
	switch t {
	case TransitionNone:
		return "none"
	case TransitionFade:
		return "fade"
	case TransitionChase:
		return "chase"
	default:
		return fmt.Sprintf("transition(%d)", int(t))
	}
}

type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Scale dims c to the given brightness, 255 being full intensity.
func (c Color) Scale(brightness uint8) Color {
	return Color{
		R: scale(c.R, brightness),
		G: scale(c.G, brightness),
		B: scale(c.B, brightness),
	}
}

func scale(v, brightness uint8) uint8 {
	return uint8(uint16(v) * uint16(brightness) / 255)
}

// Clamp limits v to the 0-255 range of a color channel or brightness.
func Clamp(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}

// State is what the strip is showing, or is about to show once the running
// animation completes.
type State struct {
	Color      Color
	Brightness uint8
	Transition Transition
}

func DefaultState() State {
	return State{
		Color:      Color{R: 255},
		Brightness: 50,
		Transition: TransitionFade,
	}
}

func (s State) String() string {
	return fmt.Sprintf("%s brightness=%d transition=%s", s.Color, s.Brightness, s.Transition)
}
