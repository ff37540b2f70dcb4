package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kiliankoe/calculecrit/internal/config"
	"github.com/kiliankoe/calculecrit/internal/game"
	"github.com/kiliankoe/calculecrit/internal/narration"
	"github.com/kiliankoe/calculecrit/internal/store"
	"github.com/spf13/cobra"
)

func newPlayCmd(cfg config.Config) *cobra.Command {
	var (
		module    int
		level     int
		questions int
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run one exercise session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := game.SessionConfig{
				Module:           module,
				Level:            level,
				TotalQuestions:   questions,
				SubtractionRatio: cfg.SubtractionRatio,
			}
			return runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), sc)
		},
	}
	cmd.Flags().IntVar(&module, "module", 0, "module to practice, 1 or 2 (defaults to the module owning --level, else 1)")
	cmd.Flags().IntVar(&level, "level", 0, "level to practice (defaults to the first level of the module)")
	cmd.Flags().IntVar(&questions, "questions", cfg.TotalQuestions, "questions per session")
	return cmd
}

func runPlay(ctx context.Context, in io.Reader, out io.Writer, sc game.SessionConfig) error {
	rm := game.NewRoomManager()
	code, _, err := rm.CreateSession(sc)
	if err != nil {
		return err
	}
	room, err := rm.Get(code)
	if err != nil {
		return err
	}

	p := &player{
		in:  bufio.NewScanner(in),
		out: out,
		n:   narration.New(narration.ResolveTag(flagLang)),
	}
	if err := p.play(room.Session); err != nil {
		return err
	}
	if flagDB == "" || room.Snapshot().Phase != game.PhaseResult {
		return nil
	}

	db, err := store.NewSQLite(flagDB)
	if err != nil {
		return err
	}
	defer db.Close()
	res, err := store.ResultFromRoom(room, time.Now())
	if err != nil {
		return err
	}
	return db.Save(ctx, res)
}

type player struct {
	in  *bufio.Scanner
	out io.Writer
	n   *narration.Narrator

	question int
}

// play drives s from intro to result on the terminal. It returns nil when
// the input ends early.
func (p *player) play(s *game.Session) error {
	p.say(s.Snapshot())
	if _, ok := p.ask("[Enter]"); !ok {
		return nil
	}
	u, err := s.Start()
	if err != nil {
		return err
	}
	for {
		p.show(u)
		snap := u.State
		if snap.Phase == game.PhaseResult {
			return nil
		}

		var prompt string
		switch snap.Phase {
		case game.PhaseVerify:
			prompt = "[Enter]"
		case game.PhaseVennDiagram:
			prompt = "red blue"
		case game.PhaseEquation:
			prompt = "operation = result"
		}
		line, ok := p.ask(prompt)
		if !ok {
			return nil
		}

		switch snap.Phase {
		case game.PhaseVerify:
			u, err = s.Continue()
		case game.PhaseRedCount:
			u, err = s.SubmitRedCount(game.Answer(line))
		case game.PhaseBlueCount:
			u, err = s.SubmitBlueCount(game.Answer(line))
		case game.PhaseTotalCount:
			u, err = s.SubmitTotal(game.Answer(line))
		case game.PhaseSecondColor:
			u, err = s.SubmitSecondColor(game.Answer(line))
		case game.PhaseVennDiagram:
			red, blue := splitPair(line)
			u, err = s.SubmitVennDiagram(game.Answer(red), game.Answer(blue))
		case game.PhaseEquation:
			op, result := splitEquation(line)
			u, err = s.SubmitEquation(op, game.Answer(result))
		default:
			return fmt.Errorf("play: unexpected phase %s", snap.Phase)
		}
		if err != nil {
			return err
		}
	}
}

func (p *player) ask(prompt string) (string, bool) {
	if prompt == "" {
		prompt = ">"
	} else {
		prompt += " >"
	}
	fmt.Fprint(p.out, prompt+" ")
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func (p *player) say(snap game.Snapshot) {
	fmt.Fprintln(p.out, p.n.Text(snap.MessageKey, snap))
}

func (p *player) show(u game.Update) {
	snap := u.State
	if snap.Phase != game.PhaseResult && snap.QuestionNumber != p.question {
		p.question = snap.QuestionNumber
		fmt.Fprintf(p.out, "\nQuestion %d/%d\n", snap.QuestionNumber, snap.TotalQuestions)
	}
	if u.Intent.Outcome == game.OutcomeAdvanced && snap.ShowBalls && snap.Phase != game.PhaseResult {
		fmt.Fprintln(p.out, marbles(snap))
	}
	p.say(snap)
	if v := u.Verdict; v != nil && v.Correct {
		fmt.Fprintf(p.out, "+%d points (streak %d)\n", v.Points, v.Streak)
	}
	if snap.Phase == game.PhaseResult {
		fmt.Fprintf(p.out, "%s  %d points\n", stars(snap.StarRating, snap.TotalQuestions), snap.Progress.Points)
	}
}

// marbles draws the tokens of the current round, one row per color.
func marbles(snap game.Snapshot) string {
	return "red:  " + strings.Repeat("o ", snap.RedCount) + "\nblue: " + strings.Repeat("o ", snap.BlueCount)
}

func stars(n, total int) string {
	return strings.Repeat("*", n) + strings.Repeat(".", total-n)
}

// splitPair reads "3 4" or "3,4" into two answers.
func splitPair(line string) (string, string) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], fields[1]
}

// splitEquation reads "3+4=7" into its operation and result.
func splitEquation(line string) (string, string) {
	i := strings.LastIndex(line, "=")
	if i < 0 {
		return line, ""
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}
