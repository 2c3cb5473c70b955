package game

import (
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/progress"
)

// RoundStatus is the map state of one round.
type RoundStatus int

const (
	StatusLocked RoundStatus = iota
	StatusActive
	StatusPerfect
	StatusGood
	StatusPassed
)

// GoodMaxErrors is the highest error count still graded GOOD.
const GoodMaxErrors = 3

func (s RoundStatus) String() string {
	switch s {
	case StatusLocked:
		return "LOCKED"
	case StatusActive:
		return "ACTIVE"
	case StatusPerfect:
		return "PERFECT"
	case StatusGood:
		return "GOOD"
	case StatusPassed:
		return "PASSED"
	default:
		return "UNKNOWN"
	}
}

// Glyph is the one-character map marker for the status.
func (s RoundStatus) Glyph() string {
	switch s {
	case StatusPerfect:
		return "★"
	case StatusGood:
		return "●"
	case StatusPassed:
		return "○"
	case StatusActive:
		return "▸"
	default:
		return "·"
	}
}

// Done reports whether the status belongs to a finished round.
func (s RoundStatus) Done() bool {
	return s == StatusPerfect || s == StatusGood || s == StatusPassed
}

// LevelStatus is one level on the map.
type LevelStatus struct {
	LevelID   int
	Unlocked  bool
	Completed bool
	Done      int
	Rounds    []RoundStatus
}

// Grade maps a best error count to a finished-round status.
func Grade(errors int) RoundStatus {
	switch {
	case errors <= 0:
		return StatusPerfect
	case errors <= GoodMaxErrors:
		return StatusGood
	default:
		return StatusPassed
	}
}

// LevelDone reports whether a level with total rounds counts as completed.
func LevelDone(p progress.LevelProgress, total int) bool {
	return total > 0 && p.Completed.Len()+p.Archived.Len() >= total
}

// BuildMap classifies every round of every level. Levels must be in id order.
// The first level is always unlocked; each later one unlocks once the level
// before it is completed.
func BuildMap(levels []level.Meta, progressOf func(levelID int) progress.LevelProgress) []LevelStatus {
	out := make([]LevelStatus, 0, len(levels))
	prevDone := true
	for _, m := range levels {
		p := progressOf(m.LevelID)
		done := p.Done()

		ls := LevelStatus{
			LevelID:   m.LevelID,
			Unlocked:  prevDone,
			Completed: LevelDone(p, m.TotalRounds),
			Rounds:    make([]RoundStatus, m.TotalRounds),
		}
		if ls.Unlocked {
			prefixDone := true
			for i := range ls.Rounds {
				switch {
				case done.Has(i):
					ls.Rounds[i] = Grade(p.BestErrors[i])
					ls.Done++
				case prefixDone:
					ls.Rounds[i] = StatusActive
					prefixDone = false
				default:
					ls.Rounds[i] = StatusLocked
				}
			}
		}
		out = append(out, ls)
		prevDone = ls.Completed
	}
	return out
}
