package game

// CalculatePoints converts the attempts needed for a correct answer into
// points. One attempt is the only way to earn the maximum.
func CalculatePoints(attempts int) int {
	switch {
	case attempts <= 0:
		return 0
	case attempts == 1:
		return 10
	case attempts == 2:
		return 7
	case attempts == 3:
		return 5
	case attempts == 4:
		return 3
	default:
		return 1
	}
}

// Progress is the learner's gamification tally. It outlives restarts.
type Progress struct {
	Points         int `json:"points"`
	CorrectAnswers int `json:"correctAnswers"`
	Streak         int `json:"streak"`
	BestStreak     int `json:"bestStreak"`
	Perfects       int `json:"perfects"`
}

// apply records a verified question and returns the verdict.
func (p *Progress) apply(correct bool, attempts int) Verdict {
	if !correct {
		p.Streak = 0
		return Verdict{Attempts: attempts}
	}
	v := Verdict{
		Correct:  true,
		Attempts: attempts,
		Points:   CalculatePoints(attempts),
		Perfect:  attempts == 1,
	}
	p.Points += v.Points
	p.CorrectAnswers++
	p.Streak++
	if p.Streak > p.BestStreak {
		p.BestStreak = p.Streak
	}
	if v.Perfect {
		p.Perfects++
	}
	v.Streak = p.Streak
	return v
}
