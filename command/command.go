package command

import (
	"errors"
	"fmt"
)

// Identifiers of the "cmd" field.
const (
	IDSetColor      = 234
	IDSetBrightness = 236
	IDSetTransition = 237
)

var (
	ErrMalformedEncoding       = errors.New("malformed encoding")
	ErrMissingOrInvalidCommand = errors.New("missing or invalid command")
	ErrInvalidCommandPayload   = errors.New("invalid command payload")
	ErrUnknownCommand          = errors.New("unknown command")
)

// Command is one decoded message. Values are raw and may be out of range;
// clamping is up to whoever applies them.
type Command interface {
	ID() int
	fmt.Stringer
}

type SetColor struct {
	Red, Green, Blue int
}

func (SetColor) ID() int { return IDSetColor }

func (c SetColor) String() string {
	return fmt.Sprintf("set color rgb(%d,%d,%d)", c.Red, c.Green, c.Blue)
}

type SetBrightness struct {
	Value int
}

func (SetBrightness) ID() int { return IDSetBrightness }

func (c SetBrightness) String() string {
	return fmt.Sprintf("set brightness %d", c.Value)
}

type SetTransition struct {
	Mode int
}

func (SetTransition) ID() int { return IDSetTransition }

func (c SetTransition) String() string {
	return fmt.Sprintf("set transition %d", c.Mode)
}
