package game

import (
	"fmt"
	"time"
)

// Phase is the step of the exercise currently being asked.
type Phase uint8

const (
	PhaseIntro Phase = iota
	PhaseRedCount
	PhaseBlueCount
	PhaseTotalCount
	PhaseSecondColor
	PhaseVennDiagram
	PhaseEquation
	PhaseVerify
	PhaseResult
)

var phaseNames = [...]string{
	PhaseIntro:       "intro",
	PhaseRedCount:    "redCount",
	PhaseBlueCount:   "blueCount",
	PhaseTotalCount:  "totalCount",
	PhaseSecondColor: "secondColor",
	PhaseVennDiagram: "vennDiagram",
	PhaseEquation:    "equation",
	PhaseVerify:      "verify",
	PhaseResult:      "result",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	if int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("unknown phase %d", uint8(p))
	}
	return []byte(phaseNames[p]), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	v, ok := ParsePhase(string(b))
	if !ok {
		return fmt.Errorf("unknown phase %q", string(b))
	}
	*p = v
	return nil
}

// ParsePhase maps a phase name to its value. "totalFirst" is the subtraction
// flavour of totalCount and resolves to the same phase.
func ParsePhase(s string) (Phase, bool) {
	if s == "totalFirst" {
		return PhaseTotalCount, true
	}
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), true
		}
	}
	return PhaseIntro, false
}

// Terminal reports whether no further answer can be given in this session.
func (p Phase) Terminal() bool { return p == PhaseResult }

// Mood is the avatar attitude derived from the phase.
type Mood string

const (
	MoodIdle        Mood = "idle"
	MoodEncouraging Mood = "encouraging"
	MoodCelebrating Mood = "celebrating"
)

func (p Phase) Mood() Mood {
	switch p {
	case PhaseIntro:
		return MoodIdle
	case PhaseRedCount, PhaseBlueCount, PhaseTotalCount, PhaseSecondColor, PhaseVennDiagram, PhaseEquation:
		return MoodEncouraging
	case PhaseVerify, PhaseResult:
		return MoodCelebrating
	}
	panic(fmt.Sprintf("game: mood for %v", p))
}

// Policy describes how a phase treats a well-formed answer.
type Policy struct {
	// RetryOnWrong keeps the phase until the exact value is given.
	RetryOnWrong bool
	// CountsAttempts increments the attempt counter on every numeric answer.
	CountsAttempts bool
	// ResetsAttempts clears the attempt counter when the phase is entered.
	ResetsAttempts bool
}

var additionPolicies = map[Phase]Policy{
	PhaseRedCount:    {RetryOnWrong: true},
	PhaseBlueCount:   {RetryOnWrong: true},
	PhaseTotalCount:  {CountsAttempts: true},
	PhaseVennDiagram: {RetryOnWrong: true},
	PhaseEquation:    {RetryOnWrong: true, CountsAttempts: true, ResetsAttempts: true},
}

var subtractionPolicies = map[Phase]Policy{
	PhaseTotalCount:  {RetryOnWrong: true, CountsAttempts: true},
	PhaseRedCount:    {RetryOnWrong: true},
	PhaseBlueCount:   {RetryOnWrong: true},
	PhaseSecondColor: {CountsAttempts: true, ResetsAttempts: true},
}

// PolicyFor returns the answer policy of a phase under a mode. The second
// result is false when the phase takes no answer in that mode.
func PolicyFor(m Mode, p Phase) (Policy, bool) {
	table := additionPolicies
	if m == ModeSubtraction {
		table = subtractionPolicies
	}
	pol, ok := table[p]
	return pol, ok
}

// Mode selects how the counts of a round relate to each other.
type Mode string

const (
	ModeAddition    Mode = "addition"
	ModeSubtraction Mode = "subtraction"
)

// Round is the set of tokens shown for one question. It is immutable once
// generated.
type Round struct {
	Index           int  `json:"index"`
	RedCount        int  `json:"redCount"`
	BlueCount       int  `json:"blueCount"`
	Mode            Mode `json:"mode"`
	FirstColorIsRed bool `json:"firstColorIsRed"`
}

func (r Round) Total() int { return r.RedCount + r.BlueCount }

// SecondColorCount is the count the learner must deduce in subtraction mode.
func (r Round) SecondColorCount() int {
	if r.FirstColorIsRed {
		return r.BlueCount
	}
	return r.RedCount
}

func (r Round) validate() {
	if r.RedCount < 0 || r.BlueCount < 0 || r.Total() == 0 {
		panic(fmt.Sprintf("game: invalid round red=%d blue=%d", r.RedCount, r.BlueCount))
	}
}

// Outcome classifies what an action did.
type Outcome string

const (
	OutcomeAdvanced     Outcome = "advanced"
	OutcomeRetryInvalid Outcome = "retryInvalid"
	OutcomeRetryWrong   Outcome = "retryWrong"
)

// Intent is what collaborators should do after an action: narrate MessageKey,
// speak it now, add ScoreDelta and show or hide the tokens.
type Intent struct {
	Outcome      Outcome `json:"outcome"`
	MessageKey   string  `json:"messageKey"`
	Speak        bool    `json:"speak"`
	ScoreDelta   int     `json:"scoreDelta"`
	RevealTokens bool    `json:"revealTokens"`
}

// Verdict is the result of entering verify.
type Verdict struct {
	Correct  bool `json:"correct"`
	Attempts int  `json:"attempts"`
	Points   int  `json:"points"`
	Perfect  bool `json:"perfect"`
	Streak   int  `json:"streak"`
}

// SessionConfig is the level setup a learner session starts with.
type SessionConfig struct {
	Module           int     `json:"module"`
	Level            int     `json:"level"`
	TotalQuestions   int     `json:"totalQuestions"`
	SubtractionRatio float64 `json:"subtractionRatio"`
}

// Learner is someone connected to a session.
type Learner struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}
