// Support sub-commands in matrix-cli application.
package subcmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/internal/state"
	"github.com/vikonava/matrix-creator/log2"
)

type Mod struct {
	Name  string
	Usage string
	Main  func(ctx context.Context, config *state.Config, args []string) error
}

func Parse(command string, modules []Mod) (*Mod, error) {
	if command == "" {
		return nil, errors.NotValidf("empty command")
	}

	var found *Mod
	for i := range modules {
		m := &modules[i]
		if m.Name == "" {
			panic(fmt.Sprintf("code error Name='' module=%#v", m))
		}
		if command == m.Name {
			found = m
			break
		}
	}
	if found == nil {
		return nil, errors.NotFoundf("command='%s'", command)
	}
	return found, nil
}

func Names(modules []Mod) []string {
	ss := make([]string, len(modules))
	for i, m := range modules {
		ss[i] = m.Name
	}
	sort.Strings(ss)
	return ss
}

func PrintUsage(w io.Writer, modules []Mod) {
	fmt.Fprintf(w, "commands:\n")
	for _, m := range modules {
		fmt.Fprintf(w, "  %-8s %s\n", m.Name, m.Usage)
	}
}

// FlagSet does not exit on error, so shell can keep running.
func FlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// SdNotify returns false when not running under systemd.
func SdNotify(log *log2.Log, s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Errorf("sdnotify %s err=%v", strings.TrimSpace(s), err)
	}
	return ok
}

func Logger(ctx context.Context) *log2.Log {
	return log2.ContextValueLogger(ctx)
}
