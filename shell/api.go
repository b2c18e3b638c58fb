package shell

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/alphabeta"
	"github.com/domino14/remedios/automatic"
	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/config"
	"github.com/domino14/remedios/endgame"
	"github.com/domino14/remedios/evaluator"
	"github.com/domino14/remedios/move"
	"github.com/domino14/remedios/movegen"
	"github.com/domino14/remedios/strategy"
)

const (
	// maxSolveEmpties keeps the interactive solver responsive.
	maxSolveEmpties  = 16
	defaultAutoplays = 10
)

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.human = board.BlackTurn
	if len(cmd.args) > 0 {
		switch strings.ToLower(cmd.args[0]) {
		case "black", "b", "x":
		case "white", "w", "o":
			sc.human = board.WhiteTurn
		default:
			return nil, errors.New("new [black|white]")
		}
	}
	sc.game = board.NewBitBoard()
	sc.history = nil
	sc.engine.Reset()
	lines := []string{"you play " + sc.human.String()}
	lines = append(lines, sc.reply()...)
	lines = append(lines, sc.game.String())
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) show() (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	var sb strings.Builder
	sb.WriteString(sc.game.String())
	played := lo.Map(sc.history, func(m move.Move, _ int) string { return m.String() })
	sb.WriteString("moves: " + strings.Join(played, " "))
	sb.WriteString("\nengine: " + sc.engine.State().String())
	return msg(sb.String()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("play <cell>, e.g. play C4")
	}
	m, err := move.FromString(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return sc.humanMove(m)
}

func (sc *ShellController) pass() (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return sc.humanMove(move.NewPassMove())
}

func (sc *ShellController) humanMove(m move.Move) (*Response, error) {
	if err := sc.commit(m); err != nil {
		return nil, err
	}
	lines := sc.reply()
	lines = append(lines, sc.game.String())
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) aiplay() (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if movegen.GameOver(sc.game) {
		return nil, errors.New("game is over")
	}
	m := sc.engineMove()
	if err := sc.commit(m); err != nil {
		return nil, err
	}
	lines := []string{"engine plays " + m.String()}
	lines = append(lines, sc.status()...)
	lines = append(lines, sc.game.String())
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) commit(m move.Move) error {
	if movegen.GameOver(sc.game) {
		return errors.New("game is over")
	}
	if m.IsPass() && movegen.HasMoves(sc.game, sc.game.Turn()) {
		return errors.New("you may only pass without a legal move")
	}
	if err := sc.game.ApplyMove(m); err != nil {
		return fmt.Errorf("%v: %w", m, err)
	}
	sc.history = append(sc.history, m)
	return nil
}

func (sc *ShellController) engineMove() move.Move {
	var last *move.Move
	if n := len(sc.history); n > 0 {
		l := sc.history[n-1]
		last = &l
	}
	return sc.engine.Play(sc.game, last, sc.config.GetDuration(config.ConfigMoveTime))
}

// reply lets the engine move while it is on turn.
func (sc *ShellController) reply() []string {
	var lines []string
	for !movegen.GameOver(sc.game) && sc.game.Turn() != sc.human {
		m := sc.engineMove()
		if err := sc.commit(m); err != nil {
			log.Error().Err(err).Str("move", m.String()).Msg("engine-move-rejected")
			lines = append(lines, "engine failed: "+err.Error())
			break
		}
		lines = append(lines, "engine plays "+m.String())
	}
	return append(lines, sc.status()...)
}

func (sc *ShellController) status() []string {
	if movegen.GameOver(sc.game) {
		black, white := sc.game.Count(board.Black), sc.game.Count(board.White)
		result := "tie"
		if black > white {
			result = "black wins"
		} else if white > black {
			result = "white wins"
		}
		return []string{fmt.Sprintf("game over: X %d O %d, %s", black, white, result)}
	}
	if !movegen.HasMoves(sc.game, sc.game.Turn()) {
		return []string{sc.game.Turn().String() + " has no legal move and must pass"}
	}
	return nil
}

type scoredMove struct {
	m     move.Move
	score int
}

func (sc *ShellController) moves() (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	searcher := alphabeta.NewSearcher(sc.engine.Searcher().Depth())
	searcher.Advance(sc.game)
	depth := max(searcher.Depth()-1, 0)
	var plays []scoredMove
	for m := range movegen.Moves(sc.game) {
		child := sc.game.Copy()
		if err := child.ApplyMove(m); err != nil {
			return nil, err
		}
		plays = append(plays, scoredMove{m, -searcher.Score(child, depth)})
	}
	if len(plays) == 0 {
		return msg("no legal moves; pass"), nil
	}
	slices.SortStableFunc(plays, func(a, b scoredMove) int {
		return b.score - a.score
	})
	var sb strings.Builder
	sb.WriteString("     Move  Score\n")
	for i, p := range plays {
		fmt.Fprintf(&sb, "%3d: %-6s%6d\n", i+1, p.m.String(), p.score)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) eval() (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	ev := evaluator.New()
	ev.Advance(sc.game)
	var sb strings.Builder
	fmt.Fprintf(&sb, "evaluation: %d (positive favors black)\n", ev.Evaluate(sc.game))
	fmt.Fprintf(&sb, "positional: %d\n", evaluator.Positional(sc.game))
	fmt.Fprintf(&sb, "stability:  %d\n", ev.Stability(sc.game))
	fmt.Fprintf(&sb, "mobility:   %d\n", evaluator.Mobility(sc.game))
	return msg(sb.String()), nil
}

func (sc *ShellController) solve() (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if e := sc.game.Count(board.Empty); e > maxSolveEmpties {
		return nil, fmt.Errorf("%d empty cells; solve needs %d or fewer", e, maxSolveEmpties)
	}
	color := sc.game.Turn()
	tree, err := endgame.Solve(sc.game, color, sc.config.GetBool(config.ConfigEndingOpt))
	if err != nil {
		return nil, err
	}
	worst, best := tree.Bounds()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s to move: worst %v, best %v\n", color, worst, best)
	for _, br := range tree.Children() {
		if br.Tree == nil {
			fmt.Fprintf(&sb, "  %-5s not explored\n", br.Move.String())
			continue
		}
		w, b := br.Tree.Bounds()
		fmt.Fprintf(&sb, "  %-5s worst %v, best %v\n", br.Move.String(), w, b)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) settings() string {
	var sb strings.Builder
	sb.WriteString("Settings:\n")
	fmt.Fprintf(&sb, "  depth: %d\n", sc.engine.Searcher().Depth())
	fmt.Fprintf(&sb, "  ending: %d\n", sc.config.GetInt(config.ConfigEndingTurns))
	fmt.Fprintf(&sb, "  endingopt: %v\n", sc.engine.Solver().EndingOpt())
	return sb.String()
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settings()), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("set <option> <value>")
	}
	opt, val := cmd.args[0], cmd.args[1]
	switch opt {
	case "depth":
		d, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		if d < 1 {
			return nil, errors.New("depth must be at least 1")
		}
		sc.config.Set(config.ConfigSearchDepth, d)
		sc.engine.Searcher().SetDepth(d)
	case "ending":
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		if n < 1 || n > 60 {
			return nil, errors.New("ending must be between 1 and 60")
		}
		sc.config.Set(config.ConfigEndingTurns, n)
		sc.engine.SetEndingTurns(n)
	case "endingopt":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, err
		}
		sc.config.Set(config.ConfigEndingOpt, b)
		sc.engine.Solver().SetEndingOpt(b)
	default:
		return nil, errors.New("no such option: " + opt)
	}
	return msg("set " + opt + " to " + val), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	games := defaultAutoplays
	if len(cmd.args) > 0 {
		n, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		games = n
	}
	if games < 1 {
		return nil, errors.New("autoplay needs at least one game")
	}
	threads := sc.config.GetInt(config.ConfigThreads)
	if t, ok := cmd.options["threads"]; ok {
		n, err := strconv.Atoi(t)
		if err != nil {
			return nil, err
		}
		threads = n
	}
	file := sc.config.GetString(config.ConfigRecordPath)
	if f, ok := cmd.options["file"]; ok {
		file = f
	}
	summary, err := automatic.StartCompVComp(context.Background(), sc.config, games, threads, file,
		func(rng *frand.RNG) strategy.Strategy {
			return strategy.NewMainStrategy(sc.config, rng)
		})
	if err != nil {
		return nil, err
	}
	doc, err := summary.YAML()
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.Write(doc)
	if err := summary.Histogram(&sb); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}
