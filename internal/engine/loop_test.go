package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/anim"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/trigger"
)

// captureDriver remembers whether any frame ever had a lit pixel.
type captureDriver struct {
	frames  int
	everLit bool
}

func (d *captureDriver) Write(rgb []byte) error {
	d.frames++
	for _, b := range rgb {
		if b > 0 {
			d.everLit = true
			break
		}
	}
	return nil
}

func (d *captureDriver) Close() error { return nil }

func TestLoopEndToEnd(t *testing.T) {
	g := engineGrid(t)

	start := time.Now()
	script := trigger.NewScript(start, []trigger.Step{
		{After: 0, Event: trigger.Event{Kind: "cascade", Edge: anim.Top}},
	})

	drv := &captureDriver{}
	loop := NewLoop(g, anim.Defaults(), drv, script, Options{
		FPS:    120,
		Logger: zerolog.Nop(),
		Seed:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := loop.Run(ctx); err != nil {
		t.Fatalf("loop: %v", err)
	}

	if drv.frames < 2 {
		t.Fatalf("expected multiple frames, got %d", drv.frames)
	}
	if !drv.everLit {
		t.Fatal("cascade trigger produced no light")
	}
	if loop.Scheduler().Live() != 1 {
		t.Fatalf("cascade should still be live at 200ms, got %d", loop.Scheduler().Live())
	}
}

func TestLoopDropsUnknownKind(t *testing.T) {
	g := engineGrid(t)
	script := trigger.NewScript(time.Now(), []trigger.Step{
		{After: 0, Event: trigger.Event{Kind: "nope"}},
	})
	drv := &captureDriver{}
	loop := NewLoop(g, anim.Defaults(), drv, script, Options{FPS: 200, Logger: zerolog.Nop(), Seed: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = loop.Run(ctx)

	if loop.Scheduler().Live() != 0 {
		t.Fatal("unknown kind must not be admitted")
	}
}
