package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/thiefmaster/lightbox/comm"
	"github.com/thiefmaster/lightbox/led"
	"github.com/thiefmaster/lightbox/worker"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s <config.yaml>\n", os.Args[0])
		return
	}

	cfg := defaultConfig()
	if err := cfg.load(os.Args[1]); err != nil {
		log.Fatalf("%v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// log.Fatalf skips deferred calls, so every fatal path after this point
	// releases the devices itself.
	var closers []io.Closer
	var strip led.Strip
	if cfg.Strip.Port == "" {
		log.Println("no led strip configured, commands will be dropped")
	} else {
		s, port, err := led.OpenSerialStrip(cfg.Strip)
		if err != nil {
			log.Fatalf("%v\n", err)
		}
		closers = append(closers, port)
		strip = s
	}

	channel := comm.NewChannel()
	w := worker.New(channel, led.NewEngine(strip, cfg.Strip.LEDs))
	if err := w.SelfTest(); err != nil {
		closeAll(closers)
		log.Fatalf("self test failed: %v\n", err)
	}

	sources, err := startSources(ctx, cfg, channel)
	if err != nil {
		closeAll(closers)
		log.Fatalf("%v\n", err)
	}
	closers = append(closers, sources...)

	// A strip fault leaves the LEDs in an unknown state, so there is no
	// point in carrying on.
	if err := w.Run(ctx); err != nil {
		closeAll(closers)
		log.Fatalf("led worker: %v\n", err)
	}
	log.Println("shutting down")
	closeAll(closers)
}
