package led

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/tarm/serial"
)

// Strip is the hardware pixel sink. SetPixel only updates the pending frame;
// Refresh pushes it to the LEDs.
type Strip interface {
	SetPixel(index int, r, g, b uint8) error
	Refresh() error
}

type StripConfig struct {
	Port  string
	Baud  int
	LEDs  int `yaml:"leds"`
	Order string
}

type ColorOrder int

const (
	OrderRGB ColorOrder = iota
	OrderGRB
)

func ParseColorOrder(s string) (ColorOrder, error) {
	switch strings.ToLower(s) {
	case "rgb":
		return OrderRGB, nil
	case "", "grb":
		return OrderGRB, nil
	default:
		return 0, fmt.Errorf("unknown color order %q", s)
	}
}

// SerialStrip buffers one frame and writes it as an Adalight packet on
// every Refresh.
type SerialStrip struct {
	w     io.Writer
	order ColorOrder
	frame []byte
}

func NewSerialStrip(w io.Writer, leds int, order ColorOrder) *SerialStrip {
	s := &SerialStrip{
		w:     w,
		order: order,
		frame: make([]byte, 6+leds*3),
	}
	hi, lo := byte((leds-1)>>8), byte(leds-1)
	copy(s.frame, []byte{'A', 'd', 'a', hi, lo, hi ^ lo ^ 0x55})
	return s
}

// OpenSerialStrip opens the serial port the LED controller listens on.
func OpenSerialStrip(cfg StripConfig) (*SerialStrip, io.Closer, error) {
	order, err := ParseColorOrder(cfg.Order)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LEDs <= 0 {
		return nil, nil, fmt.Errorf("invalid led count %d", cfg.LEDs)
	}
	log.Printf("opening led strip on %s (%d leds)\n", cfg.Port, cfg.LEDs)
	conn, err := serial.OpenPort(&serial.Config{Name: cfg.Port, Baud: cfg.Baud})
	if err != nil {
		return nil, nil, fmt.Errorf("could not open led strip: %w", err)
	}
	return NewSerialStrip(conn, cfg.LEDs, order), conn, nil
}

func (s *SerialStrip) Len() int {
	return (len(s.frame) - 6) / 3
}

func (s *SerialStrip) SetPixel(index int, r, g, b uint8) error {
	if index < 0 || index >= s.Len() {
		return fmt.Errorf("pixel %d out of range [0,%d)", index, s.Len())
	}
	p := s.frame[6+index*3:]
	switch s.order {
	case OrderGRB:
		p[0], p[1], p[2] = g, r, b
	default:
		p[0], p[1], p[2] = r, g, b
	}
	return nil
}

func (s *SerialStrip) Refresh() error {
	if _, err := s.w.Write(s.frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
