package game

import (
	"errors"
	"fmt"
)

var ErrInvalidPhase = errors.New("invalid phase for action")

// Message keys for retry narration.
const (
	KeyRetryCount             = "retry.count"
	KeyRetryTotal             = "retry.total"
	KeyRetryInvalidNumber     = "retry.invalidNumber"
	KeyRetryVenn              = "retry.venn"
	KeyRetryEquationOperation = "retry.equationOperation"
	KeyRetryEquationResult    = "retry.equationResult"
	KeyRetryEquationInvalid   = "retry.equationInvalidResult"
)

// PhaseKey is the narration key announcing phase p under mode m.
func PhaseKey(p Phase, m Mode, correct bool) string {
	switch p {
	case PhaseTotalCount:
		if m == ModeSubtraction {
			return "phase.totalFirst"
		}
	case PhaseVerify:
		if correct {
			return "phase.verify.correct"
		}
		return "phase.verify.incorrect"
	}
	return "phase." + p.String()
}

// machine is the per-question state machine. It never touches the session
// score; it reports score changes through Intent.ScoreDelta.
type machine struct {
	level LevelSpec
	round Round
	phase Phase

	userRed   int
	userBlue  int
	userTotal int
	attempts  int

	showTokens    bool
	vennCompleted bool
}

func newMachine(l LevelSpec) *machine {
	return &machine{level: l, phase: PhaseIntro, showTokens: true}
}

func (m *machine) startPhase() Phase {
	switch m.round.Mode {
	case ModeSubtraction:
		return PhaseTotalCount
	case ModeAddition:
		return PhaseRedCount
	}
	panic(fmt.Sprintf("game: unknown mode %q", m.round.Mode))
}

// begin installs a fresh round and moves to its starting phase.
func (m *machine) begin(r Round) Intent {
	r.validate()
	m.round = r
	m.userRed, m.userBlue, m.userTotal = 0, 0, 0
	m.attempts = 0
	m.vennCompleted = false
	m.showTokens = true
	return m.enter(m.startPhase())
}

// enter moves to p and returns the narration intent for the new phase.
func (m *machine) enter(p Phase) Intent {
	m.phase = p
	if pol, ok := PolicyFor(m.round.Mode, p); ok && pol.ResetsAttempts {
		m.attempts = 0
	}
	in := Intent{
		Outcome:    OutcomeAdvanced,
		MessageKey: PhaseKey(p, m.round.Mode, false),
		Speak:      true,
	}
	if p == PhaseVerify {
		m.showTokens = true
		if m.correct() {
			in.ScoreDelta = 1
			in.MessageKey = PhaseKey(p, m.round.Mode, true)
		}
	}
	in.RevealTokens = m.showTokens
	return in
}

func (m *machine) retry(o Outcome, key string) Intent {
	return Intent{Outcome: o, MessageKey: key, Speak: true, RevealTokens: m.showTokens}
}

// correct derives the verification result from the stored answers.
func (m *machine) correct() bool {
	switch m.round.Mode {
	case ModeSubtraction:
		if m.round.FirstColorIsRed {
			return m.userBlue == m.round.BlueCount
		}
		return m.userRed == m.round.RedCount
	case ModeAddition:
		return m.userTotal == m.round.Total()
	}
	panic(fmt.Sprintf("game: unknown mode %q", m.round.Mode))
}

func (m *machine) expect(p Phase) (Policy, error) {
	if m.phase != p {
		return Policy{}, fmt.Errorf("%w: %s while in %s", ErrInvalidPhase, p, m.phase)
	}
	pol, ok := PolicyFor(m.round.Mode, p)
	if !ok {
		return Policy{}, fmt.Errorf("%w: %s in %s mode", ErrInvalidPhase, p, m.round.Mode)
	}
	return pol, nil
}

func (m *machine) submitRed(a Answer) (Intent, error) {
	if _, err := m.expect(PhaseRedCount); err != nil {
		return Intent{}, err
	}
	n, ok := a.Int()
	if !ok {
		return m.retry(OutcomeRetryInvalid, KeyRetryInvalidNumber), nil
	}
	if !matchRed(n, m.round) {
		return m.retry(OutcomeRetryWrong, KeyRetryCount), nil
	}
	m.userRed = n
	return m.afterColor(PhaseBlueCount), nil
}

func (m *machine) submitBlue(a Answer) (Intent, error) {
	if _, err := m.expect(PhaseBlueCount); err != nil {
		return Intent{}, err
	}
	n, ok := a.Int()
	if !ok {
		return m.retry(OutcomeRetryInvalid, KeyRetryInvalidNumber), nil
	}
	if !matchBlue(n, m.round) {
		return m.retry(OutcomeRetryWrong, KeyRetryCount), nil
	}
	m.userBlue = n
	if m.round.Mode == ModeAddition && !m.level.UsesDiagram {
		m.showTokens = false
		return m.enter(PhaseTotalCount), nil
	}
	return m.afterColor(PhaseVennDiagram), nil
}

// afterColor picks the phase that follows a correct color count. In
// subtraction mode the first color always leads to the deduced one.
func (m *machine) afterColor(next Phase) Intent {
	switch m.round.Mode {
	case ModeSubtraction:
		m.showTokens = false
		return m.enter(PhaseSecondColor)
	case ModeAddition:
		if next == PhaseVennDiagram {
			m.showTokens = false
		}
		return m.enter(next)
	}
	panic(fmt.Sprintf("game: unknown mode %q", m.round.Mode))
}

func (m *machine) submitTotal(a Answer) (Intent, error) {
	pol, err := m.expect(PhaseTotalCount)
	if err != nil {
		return Intent{}, err
	}
	n, ok := a.Int()
	if !ok {
		return m.retry(OutcomeRetryInvalid, KeyRetryInvalidNumber), nil
	}
	m.userTotal = n
	if pol.CountsAttempts {
		m.attempts++
	}
	if pol.RetryOnWrong {
		if !matchTotal(n, m.round) {
			return m.retry(OutcomeRetryWrong, KeyRetryTotal), nil
		}
		if m.round.FirstColorIsRed {
			return m.enter(PhaseRedCount), nil
		}
		return m.enter(PhaseBlueCount), nil
	}
	return m.enter(PhaseVerify), nil
}

func (m *machine) submitSecondColor(a Answer) (Intent, error) {
	pol, err := m.expect(PhaseSecondColor)
	if err != nil {
		return Intent{}, err
	}
	n, ok := a.Int()
	if !ok {
		return m.retry(OutcomeRetryInvalid, KeyRetryInvalidNumber), nil
	}
	m.userTotal = n
	if m.round.FirstColorIsRed {
		m.userBlue = n
	} else {
		m.userRed = n
	}
	if pol.CountsAttempts {
		m.attempts++
	}
	if pol.RetryOnWrong && !matchSecondColor(n, m.round) {
		return m.retry(OutcomeRetryWrong, KeyRetryCount), nil
	}
	return m.enter(PhaseVerify), nil
}

func (m *machine) submitVenn(red, blue Answer) (Intent, error) {
	if _, err := m.expect(PhaseVennDiagram); err != nil {
		return Intent{}, err
	}
	r, okR := red.Int()
	b, okB := blue.Int()
	if !okR || !okB {
		return m.retry(OutcomeRetryInvalid, KeyRetryVenn), nil
	}
	if !matchVenn(r, b, m.round) {
		return m.retry(OutcomeRetryWrong, KeyRetryVenn), nil
	}
	m.vennCompleted = true
	return m.enter(PhaseEquation), nil
}

func (m *machine) submitEquation(operation string, result Answer) (Intent, error) {
	pol, err := m.expect(PhaseEquation)
	if err != nil {
		return Intent{}, err
	}
	n, ok := result.Int()
	if !ok {
		return m.retry(OutcomeRetryInvalid, KeyRetryEquationInvalid), nil
	}
	m.userTotal = n
	if pol.CountsAttempts {
		m.attempts++
	}
	check := checkEquation(operation, n, m.round)
	switch {
	case !check.OperationOK:
		return m.retry(OutcomeRetryWrong, KeyRetryEquationOperation), nil
	case !check.ResultOK:
		return m.retry(OutcomeRetryWrong, KeyRetryEquationResult), nil
	}
	return m.enter(PhaseVerify), nil
}
