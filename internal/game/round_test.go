package game

import (
	"errors"
	"math/rand"
	"testing"
)

func TestGeneratorRespectsBounds(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)), 0.5)
	for _, l := range levels {
		for i := 1; i <= 200; i++ {
			r := g.Next(l, i)
			if r.RedCount < l.Min || r.RedCount > l.Max || r.BlueCount < l.Min || r.BlueCount > l.Max {
				t.Fatalf("level %d: round %+v out of %d..%d", l.ID, r, l.Min, l.Max)
			}
			if r.Total() <= 0 {
				t.Fatalf("level %d: empty round", l.ID)
			}
			if r.Mode == ModeSubtraction && !l.AllowsSubtract {
				t.Fatalf("level %d should never subtract", l.ID)
			}
			if r.Index != i {
				t.Fatalf("expected index %d, got %d", i, r.Index)
			}
		}
	}
}

func TestGeneratorNeverBothZero(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(7)), 0)
	l := LevelSpec{ID: 99, Module: 1, Min: 0, Max: 1}
	for i := 0; i < 500; i++ {
		r := g.Next(l, 1)
		if r.RedCount == 0 && r.BlueCount == 0 {
			t.Fatal("generator produced an empty round")
		}
	}
}

func TestGeneratorSubtractionRatio(t *testing.T) {
	l, err := LookupLevel(2)
	if err != nil {
		t.Fatalf("LookupLevel: %v", err)
	}
	never := NewGenerator(rand.New(rand.NewSource(3)), 0)
	always := NewGenerator(rand.New(rand.NewSource(3)), 1)
	sawRedFirst, sawBlueFirst := false, false
	for i := 0; i < 100; i++ {
		if never.Next(l, 1).Mode != ModeAddition {
			t.Fatal("ratio 0 should never subtract")
		}
		r := always.Next(l, 1)
		if r.Mode != ModeSubtraction {
			t.Fatal("ratio 1 should always subtract")
		}
		if r.FirstColorIsRed {
			sawRedFirst = true
		} else {
			sawBlueFirst = true
		}
	}
	if !sawRedFirst || !sawBlueFirst {
		t.Fatal("first color should vary between rounds")
	}
}

func TestLevelLookup(t *testing.T) {
	l, err := FirstLevel(2)
	if err != nil || l.ID != 3 || !l.UsesDiagram {
		t.Fatalf("FirstLevel(2) = %+v, %v", l, err)
	}
	if _, err := FirstLevel(0); !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}
	if _, err := LookupLevel(6); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestInvalidRoundPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty round")
		}
	}()
	newMachine(levels[0]).begin(Round{Mode: ModeAddition})
}
