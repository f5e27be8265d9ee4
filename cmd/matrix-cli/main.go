package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/cmd/matrix-cli/detect"
	"github.com/vikonava/matrix-creator/cmd/matrix-cli/led"
	"github.com/vikonava/matrix-creator/cmd/matrix-cli/monitor"
	"github.com/vikonava/matrix-creator/cmd/matrix-cli/shell"
	"github.com/vikonava/matrix-creator/cmd/matrix-cli/subcmd"
	"github.com/vikonava/matrix-creator/internal/state"
	"github.com/vikonava/matrix-creator/log2"
)

const defaultConfig = "matrix.hcl"

var modules = []subcmd.Mod{
	detect.Mod,
	detect.VisionMod,
	led.ColorMod,
	led.SpinMod,
	led.PulseMod,
	monitor.Mod,
}

func main() {
	modules = append(modules, shell.New(modules))
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("matrix-cli", flag.ContinueOnError)
	flagConfig := fs.String("config", defaultConfig, "config file, hcl/yaml/toml by extension, empty for defaults")
	flagVerbose := fs.Bool("v", false, "debug log to stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: matrix-cli [flags] command [args]\n")
		fs.PrintDefaults()
		subcmd.PrintUsage(fs.Output(), modules)
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	bootLog := log2.NewStderr(log2.LInfo)
	bootLog.SetFlags(log2.LInteractiveFlags)
	if *flagVerbose {
		bootLog.SetLevel(log2.LDebug)
	}
	config, err := readConfig(bootLog, *flagConfig)
	if err != nil {
		bootLog.Error(errors.ErrorStack(err))
		return 1
	}

	log, closeLog := bootLog, func() error { return nil }
	if !*flagVerbose {
		if log, closeLog, err = config.NewLog(); err != nil {
			bootLog.Error(errors.ErrorStack(err))
			return 1
		}
	}
	defer func() {
		if err := closeLog(); err != nil {
			bootLog.Errorf("close log err=%v", err)
		}
	}()
	if subcmd.SdNotify(log, "start") {
		// systemd journal adds timestamp
		log.SetFlags(log2.LServiceFlags)
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	mod, err := subcmd.Parse(fs.Arg(0), modules)
	if err != nil {
		bootLog.Error(err)
		fs.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log2.ContextWithLogger(ctx, log)
	log.Debugf("command=%s config=%s ip=%s", mod.Name, *flagConfig, config.Matrix.IP)
	if err := mod.Main(ctx, config, fs.Args()[1:]); err != nil {
		log.Error(errors.ErrorStack(err))
		if log != bootLog {
			bootLog.Errorf("%s: %v", mod.Name, err)
		}
		return 1
	}
	return 0
}

// Default config file is optional, explicit one is required.
func readConfig(log *log2.Log, name string) (*state.Config, error) {
	if name == "" {
		return state.Default(), nil
	}
	osfs, err := state.NewOsFullReader("")
	if err != nil {
		return nil, err
	}
	config, err := state.ReadConfig(log, osfs, name)
	if err != nil && name == defaultConfig && errors.IsNotFound(err) {
		log.Debugf("config %s not found, using defaults", name)
		return state.Default(), nil
	}
	return config, err
}
