package comm

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/tarm/serial"
)

type LinkConfig struct {
	Port string
	Baud int
}

// readLines feeds newline-terminated messages from r into ch until r fails
// or ctx is done. Lines longer than MaxMessageSize are dropped whole.
func readLines(ctx context.Context, r io.Reader, ch *Channel) error {
	reader := bufio.NewReader(r)
	line := make([]byte, 0, MaxMessageSize)
	overflow := false
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if err != nil {
			return err
		}
		if !overflow {
			if len(line)+len(chunk) > MaxMessageSize {
				overflow = true
			} else {
				line = append(line, chunk...)
			}
		}
		if isPrefix {
			continue
		}

		trimmed := bytes.TrimSpace(line)
		dropped := overflow
		line = line[:0]
		overflow = false
		if dropped {
			log.Printf("dropping oversized link message (> %d bytes)\n", MaxMessageSize)
			continue
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := ch.Submit(ctx, trimmed); err != nil {
			if errors.Is(err, ErrMessageTooLong) {
				log.Printf("dropping link message: %v\n", err)
				continue
			}
			return err
		}
	}
}

// OpenLink opens the serial device carrying commands (usually a BLE-UART
// bridge) and starts feeding its lines into ch. Closing the returned port
// stops the reader.
func OpenLink(ctx context.Context, cfg LinkConfig, ch *Channel) (io.Closer, error) {
	log.Printf("opening serial link %s\n", cfg.Port)
	conn, err := serial.OpenPort(&serial.Config{Name: cfg.Port, Baud: cfg.Baud})
	if err != nil {
		return nil, fmt.Errorf("could not open serial link: %w", err)
	}

	go func() {
		err := readLines(ctx, conn, ch)
		switch {
		case errors.Is(err, context.Canceled):
		case errors.Is(err, io.EOF):
			log.Printf("serial link %s closed\n", cfg.Port)
		default:
			log.Printf("serial link %s: %v\n", cfg.Port, err)
		}
	}()
	return conn, nil
}
