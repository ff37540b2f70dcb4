package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrUnknownModule = errors.New("unknown module")
	ErrUnknownLevel  = errors.New("unknown level")
)

// LevelSpec bounds the token counts of a level, per color and inclusive.
type LevelSpec struct {
	ID             int
	Module         int
	Min, Max       int
	AllowsSubtract bool
	UsesDiagram    bool
}

var levels = []LevelSpec{
	{ID: 1, Module: 1, Min: 1, Max: 5},
	{ID: 2, Module: 1, Min: 1, Max: 6, AllowsSubtract: true},
	{ID: 3, Module: 2, Min: 1, Max: 9, UsesDiagram: true},
	{ID: 4, Module: 2, Min: 2, Max: 12, UsesDiagram: true},
	{ID: 5, Module: 2, Min: 5, Max: 20, UsesDiagram: true},
}

// Levels lists every level in play order.
func Levels() []LevelSpec {
	out := make([]LevelSpec, len(levels))
	copy(out, levels)
	return out
}

// LookupLevel returns the settings of a level id.
func LookupLevel(id int) (LevelSpec, error) {
	for _, l := range levels {
		if l.ID == id {
			return l, nil
		}
	}
	return LevelSpec{}, fmt.Errorf("%w: %d", ErrUnknownLevel, id)
}

// FirstLevel returns the entry level of a module.
func FirstLevel(module int) (LevelSpec, error) {
	for _, l := range levels {
		if l.Module == module {
			return l, nil
		}
	}
	return LevelSpec{}, fmt.Errorf("%w: %d", ErrUnknownModule, module)
}

// Generator draws rounds for a level.
type Generator struct {
	rng              *rand.Rand
	subtractionRatio float64
}

// NewGenerator returns a generator using rng, or a time-seeded source when
// rng is nil. ratio is the share of subtraction rounds on levels that allow it.
func NewGenerator(rng *rand.Rand, ratio float64) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return &Generator{rng: rng, subtractionRatio: ratio}
}

// Next draws the round for question index on level l.
func (g *Generator) Next(l LevelSpec, index int) Round {
	if l.Min < 0 || l.Max < l.Min || l.Max == 0 {
		panic(fmt.Sprintf("game: level %d has bounds %d..%d", l.ID, l.Min, l.Max))
	}
	r := Round{Index: index, Mode: ModeAddition}
	for r.Total() == 0 {
		r.RedCount = l.Min + g.rng.Intn(l.Max-l.Min+1)
		r.BlueCount = l.Min + g.rng.Intn(l.Max-l.Min+1)
	}
	if l.AllowsSubtract && g.rng.Float64() < g.subtractionRatio {
		r.Mode = ModeSubtraction
	}
	r.FirstColorIsRed = g.rng.Intn(2) == 0
	return r
}
