package led

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/cmd/matrix-cli/subcmd"
	"github.com/vikonava/matrix-creator/everloop"
	"github.com/vikonava/matrix-creator/helpers"
	"github.com/vikonava/matrix-creator/internal/state"
)

var colorUsage = "<" + strings.Join(everloop.ColorNames(), "|") + "|r,g,b,w>"

var ColorMod = subcmd.Mod{Name: "color", Usage: colorUsage, Main: ColorMain}
var SpinMod = subcmd.Mod{Name: "spin", Usage: "[-t seconds] [color]", Main: animationMain("spin")}
var PulseMod = subcmd.Mod{Name: "pulse", Usage: "[-t seconds] [color]", Main: animationMain("pulse")}

// replaced in tests
var newClient = (*state.Config).Client

func ColorMain(ctx context.Context, config *state.Config, args []string) error {
	if len(args) != 1 {
		return errors.NotValidf("usage: color %s", colorUsage)
	}
	c, err := everloop.ParseColor(args[0])
	if err != nil {
		return err
	}
	e := everloop.New(newClient(config, subcmd.Logger(ctx)), config.Port("everloop"))
	return e.ModifyColor(ctx, c)
}

func animationMain(name string) func(context.Context, *state.Config, []string) error {
	return func(ctx context.Context, config *state.Config, args []string) error {
		anim, d, err := parseAnimation(name, args)
		if err != nil {
			return err
		}
		e := everloop.New(newClient(config, subcmd.Logger(ctx)), config.Port("everloop"))
		return e.Run(ctx, anim, func(ctx context.Context) error {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
			}
			return nil
		})
	}
}

// parseAnimation reads [-t seconds] [color], defaults are 3 seconds of white.
func parseAnimation(name string, args []string) (everloop.Animation, time.Duration, error) {
	fs := subcmd.FlagSet(name, os.Stderr)
	flagSecs := fs.Float64("t", 3, "animation duration, seconds")
	if err := fs.Parse(args); err != nil {
		return nil, 0, errors.NotValidf("%s args: %v", name, err)
	}
	if *flagSecs < 0 || fs.NArg() > 1 {
		return nil, 0, errors.NotValidf("usage: %s [-t seconds] [color]", name)
	}
	color := everloop.White
	if fs.NArg() == 1 {
		c, err := everloop.ParseColor(fs.Arg(0))
		if err != nil {
			return nil, 0, err
		}
		color = c
	}
	d := helpers.FloatSecond(*flagSecs)
	switch name {
	case "spin":
		return everloop.NewSpinner(color), d, nil
	case "pulse":
		return everloop.NewPulse(color), d, nil
	}
	return nil, 0, errors.NotFoundf("animation %q", name)
}
