// Package monitor forwards one sensor telemetry to broker until stopped.
// Suitable for systemd Type=notify service.
package monitor

import (
	"context"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/cmd/matrix-cli/subcmd"
	"github.com/vikonava/matrix-creator/helpers"
	"github.com/vikonava/matrix-creator/internal/state"
	"github.com/vikonava/matrix-creator/sensor"
	"github.com/vikonava/matrix-creator/tele"
)

const modName = "monitor"

var Mod = subcmd.Mod{Name: modName, Usage: "<sensor>", Main: Main}

// replaced in tests
var (
	newClient    = (*state.Config).Client
	newForwarder = tele.New
)

func Main(ctx context.Context, config *state.Config, args []string) error {
	log := subcmd.Logger(ctx)
	if len(args) != 1 {
		return errors.NotValidf("usage: %s <sensor>", modName)
	}
	s, err := sensor.ByName(args[0], config.Ports())
	if err != nil {
		return err
	}

	f, err := newForwarder(ctx, log, config.Tele)
	if err != nil {
		return errors.Annotate(err, modName)
	}
	sink := tele.NewSink(f, log, s.Name)

	// limits from config still apply, usually both are unset
	opt := config.DetectOptions()
	opt.Discard = true
	subcmd.SdNotify(log, daemon.SdNotifyReady)
	log.Infof("monitor %s port=%d tele=%s %s", s.Name, s.Port, config.Tele.Kind, opt)
	r, err := newClient(config, log).DetectResult(ctx, s.Port, s.Decoder, opt, sink.Callback(ctx))
	subcmd.SdNotify(log, daemon.SdNotifyStopping)
	if err == nil {
		log.Infof("monitor %s state=%s forwarded=%d pings=%d driver_errors=%d",
			s.Name, r.State, sink.Sent(), r.Pings, r.DriverErrors)
		if r.Err != nil {
			err = errors.Annotate(r.Err, modName)
		}
	}
	return helpers.FoldErrors(err, f.Close())
}
