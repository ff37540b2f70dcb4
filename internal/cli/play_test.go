package cli

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kiliankoe/calculecrit/internal/game"
	"github.com/kiliankoe/calculecrit/internal/narration"
	"github.com/kiliankoe/calculecrit/internal/store"
	"golang.org/x/text/language"
)

type oneRound game.Round

func (r oneRound) Next(l game.LevelSpec, index int) game.Round {
	out := game.Round(r)
	out.Index = index
	return out
}

func playLines(t *testing.T, cfg game.SessionConfig, round game.Round, lines ...string) (*game.Session, string) {
	t.Helper()
	s, err := game.NewSession(cfg, oneRound(round))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	var out bytes.Buffer
	p := &player{
		in:  bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n") + "\n")),
		out: &out,
		n:   narration.New(language.English),
	}
	if err := p.play(s); err != nil {
		t.Fatalf("play: %v", err)
	}
	return s, out.String()
}

func TestPlayAdditionToResult(t *testing.T) {
	cfg := game.SessionConfig{Level: 1, TotalQuestions: 1}
	round := game.Round{RedCount: 2, BlueCount: 3, Mode: game.ModeAddition}

	s, out := playLines(t, cfg, round, "", "2", "four", "3", "5", "")
	snap := s.Snapshot()
	if snap.Phase != game.PhaseResult {
		t.Fatalf("phase = %s, want result", snap.Phase)
	}
	if snap.Score != 1 {
		t.Fatalf("score = %d, want 1", snap.Score)
	}
	for _, want := range []string{
		"Question 1/1",
		"red:  o o ",
		"Please enter a valid number.",
		"Well done! 2 + 3 = 5.",
		"All done! You found 1 right answers out of 1.",
		"*  10 points",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlayDiagramLevel(t *testing.T) {
	cfg := game.SessionConfig{Level: 3, TotalQuestions: 1}
	round := game.Round{RedCount: 4, BlueCount: 2, Mode: game.ModeAddition}

	s, out := playLines(t, cfg, round, "", "4", "2", "4, 2", "2 + 4 = 6", "")
	if got := s.Snapshot().Phase; got != game.PhaseResult {
		t.Fatalf("phase = %s, want result\n%s", got, out)
	}
}

func TestPlayStopsAtEndOfInput(t *testing.T) {
	cfg := game.SessionConfig{Level: 1, TotalQuestions: 2}
	round := game.Round{RedCount: 1, BlueCount: 1, Mode: game.ModeAddition}

	s, _ := playLines(t, cfg, round, "", "1")
	if got := s.Snapshot().Phase; got != game.PhaseBlueCount {
		t.Fatalf("phase = %s, want blueCount", got)
	}
}

func TestSplitInput(t *testing.T) {
	if r, b := splitPair(" 3,4 "); r != "3" || b != "4" {
		t.Fatalf("splitPair = %q %q", r, b)
	}
	if r, b := splitPair("7"); r != "7" || b != "" {
		t.Fatalf("splitPair single = %q %q", r, b)
	}
	if op, res := splitEquation("3 + 4 = 7"); op != "3 + 4" || res != "7" {
		t.Fatalf("splitEquation = %q %q", op, res)
	}
	if op, res := splitEquation("3+4"); op != "3+4" || res != "" {
		t.Fatalf("splitEquation without result = %q %q", op, res)
	}
}

func TestLevelsCommand(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"levels"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("levels: %v", err)
	}
	if !strings.Contains(out.String(), "5-20") {
		t.Fatalf("levels output missing level 5 bounds:\n%s", out.String())
	}
}

func TestResultsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	db, err := store.NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	err = db.Save(context.Background(), store.Result{
		Code: "ABCDE", Module: 1, Level: 2, Score: 4, TotalQuestions: 5,
		Points: 37, BestStreak: 3, FinishedAt: time.Now(),
	})
	db.Close()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"results", "--db", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("results: %v", err)
	}
	if !strings.Contains(out.String(), "ABCDE") || !strings.Contains(out.String(), "4/5") {
		t.Fatalf("results output:\n%s", out.String())
	}
}

func TestPlayCommandLevelPicksItsModule(t *testing.T) {
	for _, level := range []string{"3", "4", "5"} {
		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetIn(strings.NewReader(""))
		cmd.SetArgs([]string{"play", "--lang", "en", "--db=", "--level", level})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("play --level %s: %v", level, err)
		}
		if want := "Module 2, level " + level; !strings.Contains(out.String(), want) {
			t.Fatalf("play --level %s output missing %q:\n%s", level, want, out.String())
		}
	}
}

func TestPlayCommandRejectsMismatchedModule(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"play", "--db=", "--module", "1", "--level", "3"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("level 3 in module 1 should be rejected")
	}
}
