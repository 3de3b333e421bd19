package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/anim"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/config"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/driver"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/engine"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/preview"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/trigger"
)

func main() {
	// ---- Flags (remain usable; config.yaml overrides where set) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		addr       = flag.String("addr", "", "preview HTTP listen address (overrides config)")
		drv        = flag.String("driver", "", "driver: spi | sim (overrides config)")
		fps        = flag.Int("fps", 0, "target frames per second (overrides config)")
		brightness = flag.Float64("brightness", 0, "global brightness 0..1 (overrides config)")
		maxInst    = flag.Int("max-instances", 0, "concurrent animation bound (overrides config)")
		demoEvery  = flag.Duration("demo", 0, "fire a demo cascade this often (0 = wait for sensors)")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
	} else {
		cfg = c
	}
	if *addr != "" {
		cfg.Preview.Addr = *addr
	}
	if *drv != "" {
		cfg.Driver = *drv
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if *brightness > 0 {
		cfg.Brightness = *brightness
	}
	if *maxInst > 0 {
		cfg.MaxInstances = *maxInst
	}
	if *simOnly {
		cfg.Driver = "sim"
	}

	// ---- Topology: misconfiguration is fatal, never run misaddressed ----
	grid, err := cfg.Topology()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid staircase topology")
	}
	log.Info().Int("rows", grid.Rows()).Int("leds", grid.Count()).Msg("topology validated")

	// ---- Driver ----
	var out driver.Driver
	switch cfg.Driver {
	case "spi":
		d, err := driver.NewNRZ(cfg.SPI.Port, grid.Count(), cfg.Brightness, cfg.WhiteCap)
		if err != nil {
			log.Warn().Err(err).Msg("SPI init failed; falling back to SIM")
			out = driver.NewSim()
		} else {
			if !d.IsSPI() {
				log.Warn().Msg("no SPI port found; drawing to terminal")
			}
			out = d
		}
	case "sim", "":
		out = driver.NewSim()
	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using SIM")
		out = driver.NewSim()
	}

	// ---- Triggers ----
	// Sensors push classified events into the channel source; the
	// debouncing/distance logic lives with the sensor collaborator.
	sensors := trigger.NewChanSource(16)
	var src trigger.Source = sensors
	if *demoEvery > 0 {
		src = trigger.NewPeriodic("cascade", *demoEvery)
	}

	// ---- Loop + preview ----
	loop := engine.NewLoop(grid, anim.Defaults(), out, src, engine.Options{
		FPS:          cfg.FPS,
		MaxInstances: cfg.MaxInstances,
		SeedPolicy:   cfg.SeedPolicy,
		Logger:       log.Logger,
	})

	prev := preview.NewServer(grid, cfg.FPS, cfg.Brightness, loop.Scheduler().Live)
	loop.Broadcast = prev.Broadcast

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", prev.HandleFrames)
	mux.HandleFunc("/health", prev.HandleHealth)
	srv := &http.Server{
		Addr:         cfg.Preview.Addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := loop.Run(ctx); err != nil {
			log.Error().Err(err).Msg("frame loop stopped")
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.Preview.Addr).Str("driver", cfg.Driver).Msg("preview server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("preview server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	cancel()
	_ = srv.Close()
	if err := out.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
}
