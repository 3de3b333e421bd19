package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
)

type RowCfg struct {
	Length        int    `yaml:"length"`
	Start         int    `yaml:"start"`
	Direction     string `yaml:"direction"` // "forward" | "reverse"
	VirtualPrefix int    `yaml:"virtual_prefix,omitempty"`
}

type SPICfg struct {
	Port string `yaml:"port,omitempty"` // e.g. /dev/spidev0.0; empty = first available
}

type PreviewCfg struct {
	Addr string `yaml:"addr"` // HTTP listen address for the preview server
}

type Config struct {
	Driver     string  `yaml:"driver"` // "spi" | "sim"
	FPS        int     `yaml:"fps"`
	Brightness float64 `yaml:"brightness"`
	WhiteCap   float64 `yaml:"white_cap"`

	MaxInstances int    `yaml:"max_instances"`
	SeedPolicy   string `yaml:"seed_policy"` // "per-trigger" | "process"

	SPI     SPICfg     `yaml:"spi,omitempty"`
	Preview PreviewCfg `yaml:"preview,omitempty"`

	Rows []RowCfg `yaml:"rows"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Topology builds and validates the grid from the row table.
func (c *Config) Topology() (*topology.Grid, error) {
	rows := make([]topology.Row, len(c.Rows))
	for i, r := range c.Rows {
		dir := topology.Forward
		switch r.Direction {
		case "forward", "":
		case "reverse":
			dir = topology.Reverse
		default:
			return nil, fmt.Errorf("config: row %d: unknown direction %q", i, r.Direction)
		}
		rows[i] = topology.Row{
			Length:        r.Length,
			PhysicalStart: r.Start,
			Direction:     dir,
			VirtualPrefix: r.VirtualPrefix,
		}
	}
	return topology.New(rows)
}

// Default is the as-built staircase: 14 steps of 30 LEDs wired as a
// serpentine, alternating direction every step.
func Default() *Config {
	c := &Config{
		Driver:       "sim",
		FPS:          30,
		Brightness:   0.8,
		WhiteCap:     0.85,
		MaxInstances: 5,
		SeedPolicy:   "per-trigger",
		Preview:      PreviewCfg{Addr: ":8080"},
	}
	const steps, perStep = 14, 30
	for i := 0; i < steps; i++ {
		dir := "forward"
		if i%2 == 1 {
			dir = "reverse"
		}
		c.Rows = append(c.Rows, RowCfg{
			Length:    perStep,
			Start:     i * perStep,
			Direction: dir,
		})
	}
	return c
}
