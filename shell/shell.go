// Package shell is an interactive console for playing against the engine
// and inspecting positions.
package shell

import (
	"errors"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/config"
	"github.com/domino14/remedios/move"
	"github.com/domino14/remedios/strategy"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; start one with `new`")
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// extractFields splits a line into a command, its positional arguments and
// its -key value options. Quoting follows shell rules.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if len(f) > 1 && strings.HasPrefix(f, "-") {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[f[1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{cmd: fields[0], args: args, options: options}, nil
}

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	rng     *frand.RNG
	game    *board.BitBoard
	human   board.Turn
	history []move.Move
	engine  *strategy.MainStrategy
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("new", readline.PcItem("black"), readline.PcItem("white")),
	readline.PcItem("show"),
	readline.PcItem("play"),
	readline.PcItem("pass"),
	readline.PcItem("ai"),
	readline.PcItem("moves"),
	readline.PcItem("eval"),
	readline.PcItem("solve"),
	readline.PcItem("set",
		readline.PcItem("depth"),
		readline.PcItem("ending"),
		readline.PcItem("endingopt")),
	readline.PcItem("autoplay"),
	readline.PcItem("help", readline.PcItem("set"), readline.PcItem("autoplay")),
	readline.PcItem("exit"),
)

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mremedios>\033[0m ",
		HistoryFile:     "/tmp/remedios_readline.tmp",
		AutoComplete:    completer,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(cfg)
	sc.l = l
	return sc
}

func newController(cfg *config.Config) *ShellController {
	rng := frand.New()
	return &ShellController{
		config: cfg,
		rng:    rng,
		engine: strategy.NewMainStrategy(cfg, rng),
	}
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "new", "n":
		return sc.newGame(cmd)
	case "show", "s", "b":
		return sc.show()
	case "play", "pl", "p":
		return sc.play(cmd)
	case "pass", "pa":
		return sc.pass()
	case "ai", "a":
		return sc.aiplay()
	case "moves", "gen":
		return sc.moves()
	case "eval":
		return sc.eval()
	case "solve", "endgame":
		return sc.solve()
	case "set":
		return sc.set(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "help", "h":
		var sb strings.Builder
		if len(cmd.args) == 0 {
			usage(&sb)
		} else {
			usageTopic(&sb, cmd.args[0])
		}
		return msg(sb.String()), nil
	default:
		log.Info().Str("cmd", cmd.cmd).Msg("command-not-found")
		return nil, errors.New("command " + cmd.cmd + " not found")
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.handle(line)
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msg("exiting-readline-loop")
}
