// Package shell runs other commands interactively, one per line.
// Without terminal, reads commands from stdin until EOF.
package shell

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	"github.com/vikonava/matrix-creator/cmd/matrix-cli/subcmd"
	"github.com/vikonava/matrix-creator/internal/state"
)

const modName = "shell"

var exitWords = []string{"exit", "quit"}

func New(modules []subcmd.Mod) subcmd.Mod {
	return subcmd.Mod{
		Name:  modName,
		Usage: "(reads commands from stdin)",
		Main: func(ctx context.Context, config *state.Config, args []string) error {
			if len(args) != 0 {
				return errors.NotValidf("%s takes no arguments", modName)
			}
			sh := &Shell{config: config, modules: modules, out: os.Stdout}
			return sh.MainLoop(ctx, os.Stdin)
		},
	}
}

type Shell struct {
	config  *state.Config
	modules []subcmd.Mod
	out     io.Writer
}

func (sh *Shell) MainLoop(ctx context.Context, in *os.File) error {
	if isatty.IsTerminal(in.Fd()) {
		// go-prompt returns from Run on Ctrl-D with empty line
		log := subcmd.Logger(ctx)
		p := prompt.New(
			func(line string) {
				if !sh.Exec(ctx, line) {
					log.Infof("%s: press Ctrl-D to exit", modName)
				}
			},
			sh.Complete,
			prompt.OptionPrefix("matrix> "),
			prompt.OptionTitle("matrix-cli"),
		)
		p.Run()
		return nil
	}
	return sh.ReadLoop(ctx, in)
}

func (sh *Shell) ReadLoop(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for ctx.Err() == nil && scanner.Scan() {
		if !sh.Exec(ctx, scanner.Text()) {
			break
		}
	}
	return scanner.Err()
}

// Exec runs one line, returns false on exit request.
func (sh *Shell) Exec(ctx context.Context, line string) bool {
	log := subcmd.Logger(ctx)
	words := strings.Fields(line)
	if len(words) == 0 || strings.HasPrefix(words[0], "#") {
		return true
	}
	for _, w := range exitWords {
		if words[0] == w {
			return false
		}
	}
	if words[0] == "help" {
		subcmd.PrintUsage(sh.out, sh.modules)
		return true
	}
	if words[0] == modName {
		log.Errorf("%s: already in shell", modName)
		return true
	}

	mod, err := subcmd.Parse(words[0], sh.modules)
	if err != nil {
		log.Errorf("%s: %v (try help)", modName, err)
		return true
	}
	if err := mod.Main(ctx, sh.config, words[1:]); err != nil {
		log.Errorf("%s: %s", mod.Name, errors.ErrorStack(err))
	}
	return true
}

func (sh *Shell) Complete(d prompt.Document) []prompt.Suggest {
	word := d.GetWordBeforeCursor()
	if strings.Contains(strings.TrimSpace(d.TextBeforeCursor()), " ") {
		return nil
	}
	ss := make([]prompt.Suggest, 0, len(sh.modules)+1)
	for _, m := range sh.modules {
		if m.Name == modName {
			continue
		}
		ss = append(ss, prompt.Suggest{Text: m.Name, Description: m.Usage})
	}
	ss = append(ss, prompt.Suggest{Text: "help"}, prompt.Suggest{Text: "exit"})
	return prompt.FilterHasPrefix(ss, word, false)
}
