package worker

import (
	"log"

	"github.com/thiefmaster/lightbox/command"
	"github.com/thiefmaster/lightbox/led"
)

// Dispatch applies cmd to the state, running the animation that goes with
// it first. Without a strip the command is dropped and the state is left
// untouched. The only error it returns is a hardware fault, in which case the
// state is left untouched as well.
func (w *Worker) Dispatch(cmd command.Command) error {
	if !w.engine.Ready() {
		log.Printf("led strip not ready, dropping %s\n", cmd)
		return nil
	}

	switch c := cmd.(type) {
	case command.SetColor:
		return w.setColor(c)
	case command.SetBrightness:
		return w.setBrightness(c)
	case command.SetTransition:
		w.state.Transition = led.Transition(c.Mode)
		log.Printf("transition set to %s\n", w.state.Transition)
		return nil
	default:
		log.Printf("ignoring unsupported command %T\n", cmd)
		return nil
	}
}

func (w *Worker) setColor(c command.SetColor) error {
	target := led.Color{R: led.Clamp(c.Red), G: led.Clamp(c.Green), B: led.Clamp(c.Blue)}

	var err error
	switch w.state.Transition {
	case led.TransitionFade:
		err = w.engine.FadeColor(w.state.Color, target, w.state.Brightness)
	case led.TransitionChase:
		err = w.engine.Chase(target, w.state.Brightness)
	}
	if err != nil {
		return err
	}

	w.state.Color = target
	return nil
}

func (w *Worker) setBrightness(c command.SetBrightness) error {
	value := led.Clamp(c.Value)
	log.Printf("before: %s\n", w.state)

	if _, err := w.engine.Fade(w.state.Color, w.state.Brightness, value); err != nil {
		return err
	}

	w.state.Brightness = value
	log.Printf("after: %s\n", w.state)
	return nil
}
