package comm

import (
	"fmt"
	"math"
	"time"

	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/helpers"
)

// DetectOptions limit one Perform. Nil limit means unbounded.
// With neither limit set, only ctx cancel or listener failure ends Perform.
type DetectOptions struct {
	// Seconds between driver telemetry updates, 0 means driver default.
	Speed   float64
	MaxResp *int
	MaxSecs *float64
	// Records go to callback only and are not kept in result.
	Discard bool
}

func (o DetectOptions) WithMaxResp(n int) DetectOptions {
	o.MaxResp = &n
	return o
}

func (o DetectOptions) WithMaxSecs(secs float64) DetectOptions {
	o.MaxSecs = &secs
	return o
}

func (o DetectOptions) WithSpeed(secs float64) DetectOptions {
	o.Speed = secs
	return o
}

// Validate returns errors.NotValid for impossible combinations.
func (o DetectOptions) Validate() error {
	if math.IsNaN(o.Speed) || math.IsInf(o.Speed, 0) || o.Speed < 0 {
		return errors.NotValidf("speed=%v", o.Speed)
	}
	if o.MaxResp != nil && *o.MaxResp < 0 {
		return errors.NotValidf("max_resp=%d", *o.MaxResp)
	}
	if o.MaxSecs != nil {
		if s := *o.MaxSecs; math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
			return errors.NotValidf("max_secs=%v", s)
		}
	}
	return nil
}

// MaxDuration is MaxSecs as Duration, ok=false when unset.
func (o DetectOptions) MaxDuration() (time.Duration, bool) {
	if o.MaxSecs == nil {
		return 0, false
	}
	return helpers.FloatSecond(*o.MaxSecs), true
}

func (o DetectOptions) String() string {
	resp, secs := "unlimited", "unlimited"
	if o.MaxResp != nil {
		resp = fmt.Sprint(*o.MaxResp)
	}
	if o.MaxSecs != nil {
		secs = fmt.Sprint(*o.MaxSecs)
	}
	return fmt.Sprintf("speed=%v max_resp=%s max_secs=%s discard=%t", o.Speed, resp, secs, o.Discard)
}
