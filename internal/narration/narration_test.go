package narration

import (
	"strings"
	"testing"

	"github.com/kiliankoe/calculecrit/internal/game"
	"golang.org/x/text/language"
)

var allKeys = []string{
	"phase.intro",
	"phase.redCount",
	"phase.blueCount",
	"phase.totalCount",
	"phase.totalFirst",
	"phase.secondColor",
	"phase.vennDiagram",
	"phase.equation",
	"phase.verify.correct",
	"phase.verify.incorrect",
	"phase.result",
	game.KeyRetryCount,
	game.KeyRetryTotal,
	game.KeyRetryInvalidNumber,
	game.KeyRetryVenn,
	game.KeyRetryEquationOperation,
	game.KeyRetryEquationResult,
	game.KeyRetryEquationInvalid,
}

func TestEveryKeyIsTranslated(t *testing.T) {
	snaps := []game.Snapshot{
		{RedCount: 3, BlueCount: 2, UserTotalCount: 4},
		{RedCount: 3, BlueCount: 2, IsSubtractionMode: true, FirstColorIsRed: true, UserRedCount: 3},
		{RedCount: 3, BlueCount: 2, IsSubtractionMode: true, UserBlueCount: 2},
	}
	for _, tag := range Supported() {
		n := New(tag)
		for _, key := range allKeys {
			for _, snap := range snaps {
				got := n.Text(key, snap)
				if got == "" || strings.HasPrefix(got, "phase.") || strings.HasPrefix(got, "retry.") {
					t.Fatalf("%s: key %q is not translated: %q", tag, key, got)
				}
				if strings.Contains(got, "%!") {
					t.Fatalf("%s: key %q has bad arguments: %q", tag, key, got)
				}
			}
		}
	}
}

func TestPhaseKeysMatchCatalog(t *testing.T) {
	n := New(language.French)
	for p := game.PhaseIntro; p <= game.PhaseResult; p++ {
		for _, m := range []game.Mode{game.ModeAddition, game.ModeSubtraction} {
			for _, correct := range []bool{true, false} {
				key := game.PhaseKey(p, m, correct)
				if got := n.Text(key, game.Snapshot{RedCount: 1, BlueCount: 1}); got == key {
					t.Fatalf("phase %s (%s) key %q has no text", p, m, key)
				}
			}
		}
	}
}

func TestTextFillsCounts(t *testing.T) {
	n := New(language.French)
	got := n.Text("phase.verify.correct", game.Snapshot{RedCount: 3, BlueCount: 2, UserTotalCount: 5})
	if !strings.Contains(got, "3 + 2 = 5") {
		t.Fatalf("unexpected text %q", got)
	}
	got = n.Text("phase.secondColor", game.Snapshot{RedCount: 4, BlueCount: 3, IsSubtractionMode: true, UserBlueCount: 3})
	if !strings.Contains(got, "7 billes en tout et 3 billes bleues") || !strings.Contains(got, "rouges ?") {
		t.Fatalf("unexpected text %q", got)
	}
	got = New(language.English).Text("phase.verify.incorrect", game.Snapshot{RedCount: 4, BlueCount: 3, IsSubtractionMode: true, FirstColorIsRed: true})
	if !strings.Contains(got, "7 - 4 = 3") {
		t.Fatalf("unexpected text %q", got)
	}
	if got := n.Text(game.KeyRetryCount, game.Snapshot{}); got != "Tu n'as pas bien compté, recommence." {
		t.Fatalf("unexpected retry text %q", got)
	}
}

func TestResolveTag(t *testing.T) {
	tests := map[string]language.Tag{
		"":                     language.French,
		"fr-CA":                language.French,
		"en":                   language.English,
		"en-US,en;q=0.9":       language.English,
		"de":                   language.French,
		"not a tag at all !!!": language.French,
	}
	for in, want := range tests {
		if got := ResolveTag(in); got != want {
			t.Fatalf("ResolveTag(%q) = %s, want %s", in, got, want)
		}
	}
}
