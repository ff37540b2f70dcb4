package game

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ExportSession appends the summary of a finished room to a text file.
func ExportSession(r *Room, filename string) error {
	snap := r.Snapshot()
	if snap.Phase != PhaseResult {
		return fmt.Errorf("export session %s: %w: %s", r.Code, ErrInvalidPhase, snap.Phase)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Calcul écrit - Session %s\n", r.Code))
	sb.WriteString(fmt.Sprintf("Started: %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	learners := r.Learners()
	sort.Slice(learners, func(i, j int) bool { return learners[i].JoinedAt.Before(learners[j].JoinedAt) })
	if len(learners) > 0 {
		sb.WriteString("Learners:\n")
		for _, l := range learners {
			sb.WriteString(fmt.Sprintf("- %s\n", l.Name))
		}
	}

	sb.WriteString(fmt.Sprintf("Module %d - Level %d\n", snap.Module, snap.Level))
	sb.WriteString(fmt.Sprintf("Correct answers: %d/%d\n", snap.Score, snap.TotalQuestions))
	sb.WriteString(fmt.Sprintf("Stars: %s\n", stars(snap.StarRating, snap.TotalQuestions)))
	sb.WriteString(fmt.Sprintf("Points: %d (best streak %d, perfect answers %d)\n",
		snap.Progress.Points, snap.Progress.BestStreak, snap.Progress.Perfects))
	sb.WriteString(fmt.Sprintf("Finished at %s\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("-", 50) + "\n\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

func stars(n, total int) string {
	return strings.Repeat("*", n) + strings.Repeat(".", total-n)
}
