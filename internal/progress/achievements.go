package progress

import (
	"time"

	"github.com/vytor/wordflash/internal/models"
)

// Definition describes one achievement and how its progress is measured.
type Definition struct {
	ID     string
	Title  string
	Target int
	metric func(models.ProgressStats) int
}

// Progress is the current measure for stats, capped at the target.
func (d Definition) Progress(stats models.ProgressStats) int {
	return min(d.metric(stats), d.Target)
}

// Reached reports whether stats meet the target.
func (d Definition) Reached(stats models.ProgressStats) bool {
	return d.metric(stats) >= d.Target
}

func sessions(s models.ProgressStats) int { return s.TotalPracticeSessions }
func streak(s models.ProgressStats) int   { return s.LongestStreak }
func words(s models.ProgressStats) int    { return s.TotalWords }
func mastered(s models.ProgressStats) int { return s.Mastery.Mastered }
func perfect(s models.ProgressStats) int  { return s.PerfectSessions }

// Catalog lists every achievement in display order.
var Catalog = []Definition{
	{ID: "first-session", Title: "First practice", Target: 1, metric: sessions},
	{ID: "streak-3", Title: "3-day streak", Target: 3, metric: streak},
	{ID: "streak-7", Title: "7-day streak", Target: 7, metric: streak},
	{ID: "streak-30", Title: "30-day streak", Target: 30, metric: streak},
	{ID: "words-50", Title: "50 words collected", Target: 50, metric: words},
	{ID: "mastered-10", Title: "10 words mastered", Target: 10, metric: mastered},
	{ID: "mastered-100", Title: "100 words mastered", Target: 100, metric: mastered},
	{ID: "perfect-session", Title: "Perfect session", Target: 1, metric: perfect},
}

// NewlyUnlocked returns the ids reached by stats that are not yet in unlocked.
func NewlyUnlocked(stats models.ProgressStats, unlocked map[string]time.Time) []string {
	var ids []string
	for _, d := range Catalog {
		if _, ok := unlocked[d.ID]; ok {
			continue
		}
		if d.Reached(stats) {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// Achievements reports every catalog entry against stats. An entry counts as
// unlocked once persisted or once its target is currently met.
func Achievements(stats models.ProgressStats, unlocked map[string]time.Time) []models.Achievement {
	out := make([]models.Achievement, 0, len(Catalog))
	for _, d := range Catalog {
		a := models.Achievement{
			ID:       d.ID,
			Title:    d.Title,
			Target:   d.Target,
			Progress: d.Progress(stats),
		}
		if at, ok := unlocked[d.ID]; ok {
			at := at
			a.Unlocked = true
			a.UnlockedAt = &at
			a.Progress = d.Target
		} else if d.Reached(stats) {
			a.Unlocked = true
		}
		out = append(out, a)
	}
	return out
}
