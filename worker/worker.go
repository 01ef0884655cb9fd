package worker

import (
	"context"
	"errors"
	"log"

	"github.com/thiefmaster/lightbox/comm"
	"github.com/thiefmaster/lightbox/command"
	"github.com/thiefmaster/lightbox/led"
)

// Worker is the single consumer of the command channel. It owns the visual
// state; nothing else reads or writes it while Run is active.
type Worker struct {
	channel *comm.Channel
	engine  *led.Engine
	state   led.State
}

func New(channel *comm.Channel, engine *led.Engine) *Worker {
	return &Worker{
		channel: channel,
		engine:  engine,
		state:   led.DefaultState(),
	}
}

// State returns a copy of the current state.
func (w *Worker) State() led.State {
	return w.state
}

// SelfTest chases the stored red channel across the strip.
func (w *Worker) SelfTest() error {
	err := w.engine.Chase(led.Color{R: w.state.Color.R}, w.state.Brightness)
	if errors.Is(err, led.ErrNotReady) {
		log.Println("led strip not ready, skipping self test")
		return nil
	}
	return err
}

// Handle parses and dispatches one message. Malformed or invalid messages
// are logged and dropped; only a hardware fault is returned.
func (w *Worker) Handle(msg comm.RawMessage) error {
	log.Printf("received message: %s\n", msg)
	cmd, err := command.Parse(msg.Bytes())
	if err != nil {
		log.Printf("dropping message: %v\n", err)
		return nil
	}
	return w.Dispatch(cmd)
}

// Run processes messages one at a time, each to completion, until ctx is
// done or the strip faults.
func (w *Worker) Run(ctx context.Context) error {
	log.Println("led worker started")
	for {
		msg, err := w.channel.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Println("led worker stopped")
				return nil
			}
			return err
		}
		if err := w.Handle(msg); err != nil {
			return err
		}
	}
}
