package led

import (
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	ErrNotReady      = errors.New("led strip not ready")
	ErrHardwareFault = errors.New("led strip fault")
)

const (
	DefaultFrameDelay = 8 * time.Millisecond
	DefaultChaseDelay = 50 * time.Millisecond
	DefaultSwapDelay  = 100 * time.Millisecond
)

// Engine renders animations onto a strip of Length pixels. Every method
// blocks until its last frame has been refreshed.
type Engine struct {
	Strip  Strip // nil when the hardware is not initialized
	Length int

	FrameDelay time.Duration // between fade steps
	ChaseDelay time.Duration // between chase pixels
	SwapDelay  time.Duration // between the two halves of FadeColor

	Sleep func(time.Duration)
}

func NewEngine(strip Strip, length int) *Engine {
	return &Engine{
		Strip:      strip,
		Length:     length,
		FrameDelay: DefaultFrameDelay,
		ChaseDelay: DefaultChaseDelay,
		SwapDelay:  DefaultSwapDelay,
		Sleep:      time.Sleep,
	}
}

func (e *Engine) Ready() bool {
	return e.Strip != nil
}

func (e *Engine) sleep(d time.Duration) {
	if e.Sleep != nil {
		e.Sleep(d)
	}
}

func (e *Engine) setPixel(i int, c Color) error {
	if err := e.Strip.SetPixel(i, c.R, c.G, c.B); err != nil {
		return fmt.Errorf("%w: set pixel %d: %v", ErrHardwareFault, i, err)
	}
	return nil
}

func (e *Engine) refresh() error {
	if err := e.Strip.Refresh(); err != nil {
		return fmt.Errorf("%w: refresh: %v", ErrHardwareFault, err)
	}
	return nil
}

// Fade shows c on every pixel at each brightness from old to target
// inclusive, one step per frame, and returns the number of frames rendered.
func (e *Engine) Fade(c Color, old, target uint8) (int, error) {
	if target >= old {
		log.Printf("fade in %s from %d to %d\n", c, old, target)
	} else {
		log.Printf("fade out %s from %d to %d\n", c, old, target)
	}
	if !e.Ready() {
		return 0, ErrNotReady
	}

	step := 1
	if target < old {
		step = -1
	}
	frames := 0
	for b := int(old); ; b += step {
		scaled := c.Scale(uint8(b))
		for i := 0; i < e.Length; i++ {
			if err := e.setPixel(i, scaled); err != nil {
				return frames, err
			}
		}
		if err := e.refresh(); err != nil {
			return frames, err
		}
		frames++
		e.sleep(e.FrameDelay)
		if b == int(target) {
			return frames, nil
		}
	}
}

// FadeColor fades the from color down to black, pauses, then fades the to
// color back up to brightness.
func (e *Engine) FadeColor(from, to Color, brightness uint8) error {
	log.Printf("fade color: %s\n", to)
	if !e.Ready() {
		return ErrNotReady
	}
	if _, err := e.Fade(from, brightness, 0); err != nil {
		return err
	}
	e.sleep(e.SwapDelay)
	_, err := e.Fade(to, 0, brightness)
	return err
}

// Chase lights the pixels one by one, left to right, refreshing after each.
// Lit pixels keep their color so the strip fills up.
func (e *Engine) Chase(c Color, brightness uint8) error {
	log.Printf("chase color: %s\n", c)
	if !e.Ready() {
		return ErrNotReady
	}
	scaled := c.Scale(brightness)
	for i := 0; i < e.Length; i++ {
		if err := e.setPixel(i, scaled); err != nil {
			return err
		}
		if err := e.refresh(); err != nil {
			return err
		}
		e.sleep(e.ChaseDelay)
	}
	return nil
}
