package detect

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/cmd/matrix-cli/subcmd"
	"github.com/vikonava/matrix-creator/comm"
	"github.com/vikonava/matrix-creator/internal/state"
	"github.com/vikonava/matrix-creator/malos"
	"github.com/vikonava/matrix-creator/sensor"
	"github.com/vikonava/matrix-creator/vision"
)

const modName = "detect"
const visionModName = "vision"

const flagsUsage = "[-n responses] [-t seconds] [-speed seconds]"

var usage = flagsUsage + " <" + strings.Join(sensor.Names(), "|") + ">"
var visionUsage = flagsUsage + " <" + strings.Join(vision.ObjectNames(), "|") + ">..."

var Mod = subcmd.Mod{Name: modName, Usage: usage, Main: Main}
var VisionMod = subcmd.Mod{Name: visionModName, Usage: visionUsage, Main: VisionMain}

var stdout io.Writer = os.Stdout

// replaced in tests
var newClient = (*state.Config).Client

func Main(ctx context.Context, config *state.Config, args []string) error {
	log := subcmd.Logger(ctx)
	opt, rest, err := parseFlags(modName, config, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errors.NotValidf("usage: %s %s", modName, usage)
	}

	s, err := sensor.ByName(rest[0], config.Ports())
	if err != nil {
		return err
	}
	log.Debugf("detect %s port=%d %s", s.Name, s.Port, opt)
	rs, err := s.Detect(ctx, newClient(config, log), opt, printRecord)
	if err != nil {
		return err
	}
	log.Infof("detect %s records=%d", s.Name, len(rs))
	return nil
}

func VisionMain(ctx context.Context, config *state.Config, args []string) error {
	log := subcmd.Logger(ctx)
	opt, rest, err := parseFlags(visionModName, config, args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errors.NotValidf("usage: %s %s", visionModName, visionUsage)
	}
	objects := make([]malos.EnumMalosEyeDetectionType, len(rest))
	for i, s := range rest {
		if objects[i], err = vision.ParseObject(s); err != nil {
			return err
		}
	}

	v := vision.New(newClient(config, log), config.Port(visionModName))
	log.Debugf("vision port=%d objects=%v %s", v.Port, objects, opt)
	rs, err := v.DetectObjects(ctx, objects, opt, func(r *malos.VisionResult) error { return printRecord(r) })
	if err != nil {
		return err
	}
	log.Infof("vision records=%d", len(rs))
	return nil
}

// parseFlags applies command line over config detect section.
// Without any limit, session stops after one response.
func parseFlags(name string, config *state.Config, args []string) (comm.DetectOptions, []string, error) {
	opt := config.DetectOptions()
	fs := subcmd.FlagSet(name, stdout)
	flagResp := fs.Int("n", -1, "stop after N responses, default from config")
	flagSecs := fs.Float64("t", -1, "stop after T seconds, default from config")
	flagSpeed := fs.Float64("speed", opt.Speed, "seconds between driver updates")
	if err := fs.Parse(args); err != nil {
		return opt, nil, errors.NotValidf("%s args: %v", name, err)
	}
	if *flagResp >= 0 {
		opt = opt.WithMaxResp(*flagResp)
	}
	if *flagSecs >= 0 {
		opt = opt.WithMaxSecs(*flagSecs)
	}
	opt.Speed = *flagSpeed
	if opt.MaxResp == nil && opt.MaxSecs == nil {
		opt = opt.WithMaxResp(1)
	}
	return opt, fs.Args(), nil
}

func printRecord(r comm.Record) error {
	b, err := malos.MarshalJSON(r.(proto.Message))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s\n", b)
	return err
}
