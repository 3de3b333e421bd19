// stairsim runs the animation core headless against the console
// driver with a scripted trigger schedule. Useful for eyeballing
// blend behavior and frame pacing without hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/rs/zerolog"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/anim"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/config"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/driver"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/engine"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/trigger"
)

func main() {
	var (
		kind     = flag.String("kind", "cascade", "animation kind to trigger")
		duration = flag.Duration("duration", 12*time.Second, "how long to run")
		fps      = flag.Int("fps", 30, "simulation frames per second")
	)
	flag.Parse()

	reg := anim.Defaults()
	if _, ok := reg.Get(*kind); !ok {
		log.Fatalf("unknown kind %q; have %v", *kind, reg.List())
	}

	grid, err := config.Default().Topology()
	if err != nil {
		log.Fatalf("topology: %v", err)
	}

	start := time.Now()
	// Two overlapping triggers from opposite edges to exercise the
	// saturating blend.
	script := trigger.NewScript(start, []trigger.Step{
		{After: 0, Event: trigger.Event{Kind: *kind, Edge: anim.Top}},
		{After: 1500 * time.Millisecond, Event: trigger.Event{Kind: *kind, Edge: anim.Bottom}},
	})

	sim := driver.NewSim()
	loop := engine.NewLoop(grid, reg, sim, script, engine.Options{
		FPS:    *fps,
		Logger: zerolog.Nop(),
		Seed:   42,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()
	if err := loop.Run(ctx); err != nil {
		log.Fatalf("loop: %v", err)
	}

	fmt.Printf("done: %d frames in %s (render %.2fms write %.2fms last frame)\n",
		sim.Frames, time.Since(start).Round(time.Millisecond),
		loop.Last.RenderMS, loop.Last.WriteMS)
}
