// Package everloop drives the MATRIX Creator LED ring.
package everloop

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/vikonava/matrix-creator/driver"
)

const (
	DefaultPort   = 20021
	LedCount      = 35
	FrameInterval = 100 * time.Millisecond
)

type Everloop struct {
	Client *driver.Client
	Port   int
	// zero means FrameInterval
	Interval time.Duration
}

func New(c *driver.Client, port int) *Everloop {
	if port == 0 {
		port = DefaultPort
	}
	return &Everloop{Client: c, Port: port, Interval: FrameInterval}
}

// ModifyColor sets every LED to c.
func (e *Everloop) ModifyColor(ctx context.Context, c Color) error {
	return errors.Annotatef(e.Client.Configure(ctx, e.Port, Solid(c)), "everloop color=%s", c)
}

// Run shows anim while fun executes, then turns LEDs off.
// Returns fun error, LED errors are logged.
// fun ctx is cancelled when parent ctx is.
func (e *Everloop) Run(ctx context.Context, anim Animation, fun func(context.Context) error) error {
	log := e.Client.Log
	cm, err := e.Client.Open(ctx, e.Port)
	if err != nil {
		return errors.Annotate(err, "everloop animation")
	}

	code := alive.NewAlive()
	var result error
	go func() {
		defer code.Stop()
		result = fun(ctx)
	}()

	interval := e.Interval
	if interval <= 0 {
		interval = FrameInterval
	}
	frames := 0
	for {
		if err := cm.SendConfiguration(ctx, anim.Frame()); err != nil {
			log.Errorf("everloop frame=%d err=%v", frames, err)
		}
		frames++
		t := time.NewTimer(interval)
		select {
		case <-t.C:
		case <-ctx.Done():
		}
		t.Stop()
		if !code.IsRunning() || ctx.Err() != nil {
			break
		}
		anim.Next()
	}
	<-code.StopChan()
	log.Debugf("everloop animation frames=%d", frames)

	if err := cm.Destroy(); err != nil {
		log.Errorf("everloop destroy err=%v", err)
	}
	// ring must go dark even when ctx is gone
	if err := e.ModifyColor(context.Background(), Off); err != nil {
		log.Errorf("everloop off err=%v", err)
	}
	return result
}
