package game

import (
	"fmt"
	"sync"
)

const (
	DefaultTotalQuestions = 5
	MaxTotalQuestions     = 20
)

// Snapshot is the outbound view of a session, taken under the session lock
// so the phase always matches the message it carries.
type Snapshot struct {
	Phase                     Phase    `json:"phase"`
	Mood                      Mood     `json:"mood"`
	Module                    int      `json:"module"`
	Level                     int      `json:"level"`
	Round                     *Round   `json:"round,omitempty"`
	RedCount                  int      `json:"redCount"`
	BlueCount                 int      `json:"blueCount"`
	IsSubtractionMode         bool     `json:"isSoustractionMode"`
	FirstColorIsRed           bool     `json:"firstColorIsRed"`
	UserRedCount              int      `json:"userRedCount"`
	UserBlueCount             int      `json:"userBlueCount"`
	UserTotalCount            int      `json:"userTotalCount"`
	TotalAttempts             int      `json:"totalAttempts"`
	Score                     int      `json:"score"`
	QuestionNumber            int      `json:"questionNumber"`
	TotalQuestions            int      `json:"totalQuestions"`
	ShowBalls                 bool     `json:"showBalls"`
	VennDiagramCompleted      bool     `json:"vennDiagramCompleted"`
	CorrectAnswersThisSession int      `json:"correctAnswersThisSession"`
	StarRating                int      `json:"starRating"`
	MessageKey                string   `json:"message"`
	Speak                     bool     `json:"speak"`
	Progress                  Progress `json:"progress"`
}

// Update is everything one action changed, observed atomically.
type Update struct {
	State   Snapshot `json:"state"`
	Intent  Intent   `json:"intent"`
	Verdict *Verdict `json:"verdict,omitempty"`
}

// RoundSource supplies the round for each question of a level.
type RoundSource interface {
	Next(l LevelSpec, index int) Round
}

// Session drives a learner through TotalQuestions rounds of one level.
type Session struct {
	mu sync.Mutex

	gen            RoundSource
	totalQuestions int
	level          LevelSpec
	m              *machine

	questionNumber     int
	score              int
	correctThisSession int
	progress           Progress

	messageKey string
	speak      bool
}

// NewSession opens a session on cfg's level (or the first level of
// cfg.Module when Level is zero) in the intro phase.
func NewSession(cfg SessionConfig, gen RoundSource) (*Session, error) {
	var (
		l   LevelSpec
		err error
	)
	if cfg.Level != 0 {
		l, err = LookupLevel(cfg.Level)
	} else {
		module := cfg.Module
		if module == 0 {
			module = 1
		}
		l, err = FirstLevel(module)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Module != 0 && cfg.Level != 0 && l.Module != cfg.Module {
		return nil, fmt.Errorf("%w: level %d is not part of module %d", ErrUnknownLevel, cfg.Level, cfg.Module)
	}
	if gen == nil {
		gen = NewGenerator(nil, cfg.SubtractionRatio)
	}
	total := cfg.TotalQuestions
	if total <= 0 {
		total = DefaultTotalQuestions
	}
	total = min(total, MaxTotalQuestions)
	s := &Session{gen: gen, totalQuestions: total}
	s.reset(l)
	return s, nil
}

// reset returns to intro on level l. Progress is kept.
func (s *Session) reset(l LevelSpec) Intent {
	s.level = l
	s.m = newMachine(l)
	s.questionNumber = 1
	s.score = 0
	s.correctThisSession = 0
	return s.apply(s.m.enter(PhaseIntro))
}

// apply records the narration of in and folds its score delta in.
func (s *Session) apply(in Intent) Intent {
	s.messageKey = in.MessageKey
	s.speak = in.Speak
	s.score += in.ScoreDelta
	return in
}

func (s *Session) update(in Intent) Update {
	u := Update{Intent: s.apply(in)}
	if in.Outcome == OutcomeAdvanced && s.m.phase == PhaseVerify {
		correct := s.m.correct()
		if correct {
			s.correctThisSession++
		}
		v := s.progress.apply(correct, s.m.attempts)
		u.Verdict = &v
	}
	u.State = s.snapshot()
	return u
}

// Start leaves intro and asks the first question.
func (s *Session) Start() (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m.phase != PhaseIntro {
		return Update{}, fmt.Errorf("%w: start while in %s", ErrInvalidPhase, s.m.phase)
	}
	return s.update(s.m.begin(s.gen.Next(s.level, s.questionNumber))), nil
}

func (s *Session) SubmitRedCount(a Answer) (Update, error) {
	return s.do(func() (Intent, error) { return s.m.submitRed(a) })
}

func (s *Session) SubmitBlueCount(a Answer) (Update, error) {
	return s.do(func() (Intent, error) { return s.m.submitBlue(a) })
}

func (s *Session) SubmitTotal(a Answer) (Update, error) {
	return s.do(func() (Intent, error) { return s.m.submitTotal(a) })
}

func (s *Session) SubmitSecondColor(a Answer) (Update, error) {
	return s.do(func() (Intent, error) { return s.m.submitSecondColor(a) })
}

func (s *Session) SubmitVennDiagram(red, blue Answer) (Update, error) {
	return s.do(func() (Intent, error) { return s.m.submitVenn(red, blue) })
}

func (s *Session) SubmitEquation(operation string, result Answer) (Update, error) {
	return s.do(func() (Intent, error) { return s.m.submitEquation(operation, result) })
}

func (s *Session) do(fn func() (Intent, error)) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, err := fn()
	if err != nil {
		return Update{}, err
	}
	return s.update(in), nil
}

// Continue moves on from verify: to the next question, or to result after
// the last one.
func (s *Session) Continue() (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m.phase != PhaseVerify {
		return Update{}, fmt.Errorf("%w: continue while in %s", ErrInvalidPhase, s.m.phase)
	}
	if s.questionNumber < s.totalQuestions {
		s.questionNumber++
		return s.update(s.m.begin(s.gen.Next(s.level, s.questionNumber))), nil
	}
	return s.update(s.m.enter(PhaseResult)), nil
}

// Restart goes back to intro on the current level with an empty score.
func (s *Session) Restart() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Update{Intent: s.reset(s.level), State: s.snapshot()}
}

// ChangeModule switches to the first level of module id and restarts.
func (s *Session) ChangeModule(id int) (Update, error) {
	l, err := FirstLevel(id)
	if err != nil {
		return Update{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Update{Intent: s.reset(l), State: s.snapshot()}, nil
}

// ChangeLevel switches to level id, and to the module owning it, and restarts.
func (s *Session) ChangeLevel(id int) (Update, error) {
	l, err := LookupLevel(id)
	if err != nil {
		return Update{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Update{Intent: s.reset(l), State: s.snapshot()}, nil
}

// SpeechEnded clears the speak flag once the narrator is done.
func (s *Session) SpeechEnded() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speak = false
	return s.snapshot()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	m := s.m
	snap := Snapshot{
		Phase:                     m.phase,
		Mood:                      m.phase.Mood(),
		Module:                    s.level.Module,
		Level:                     s.level.ID,
		UserRedCount:              m.userRed,
		UserBlueCount:             m.userBlue,
		UserTotalCount:            m.userTotal,
		TotalAttempts:             m.attempts,
		Score:                     s.score,
		QuestionNumber:            s.questionNumber,
		TotalQuestions:            s.totalQuestions,
		ShowBalls:                 m.showTokens,
		VennDiagramCompleted:      m.vennCompleted,
		CorrectAnswersThisSession: s.correctThisSession,
		StarRating:                min(s.correctThisSession, s.totalQuestions),
		MessageKey:                s.messageKey,
		Speak:                     s.speak,
		Progress:                  s.progress,
	}
	if m.phase != PhaseIntro {
		r := m.round
		snap.Round = &r
		snap.RedCount = r.RedCount
		snap.BlueCount = r.BlueCount
		snap.IsSubtractionMode = r.Mode == ModeSubtraction
		snap.FirstColorIsRed = r.FirstColorIsRed
	}
	return snap
}
