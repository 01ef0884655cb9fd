package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/thiefmaster/lightbox/apis"
	"github.com/thiefmaster/lightbox/comm"
	"github.com/thiefmaster/lightbox/led"
)

type appConfig struct {
	Strip       led.StripConfig
	Link        comm.LinkConfig
	Websocket   struct{ Listen string }
	EventSource apis.HTTPCredentials `yaml:"eventsource"`
	Mattermost  apis.MattermostSettings
}

func defaultConfig() appConfig {
	return appConfig{
		Strip: led.StripConfig{Baud: 115200, LEDs: 30, Order: "grb"},
		Link:  comm.LinkConfig{Baud: 9600},
	}
}

func (c *appConfig) load(path string) error {
	log.Printf("loading config file: %s\n", path)
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not open config file: %w", err)
	}
	if err = yaml.UnmarshalStrict(yamlFile, c); err != nil {
		return fmt.Errorf("could not parse config file: %w", err)
	}
	if c.Strip.LEDs <= 0 {
		return fmt.Errorf("invalid config: strip.leds must be positive, got %d", c.Strip.LEDs)
	}
	if _, err := led.ParseColorOrder(c.Strip.Order); err != nil {
		return fmt.Errorf("invalid config: strip.order: %w", err)
	}
	return nil
}
