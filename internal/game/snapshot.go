package game

import (
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/task"
)

// Result is the outcome of a finished round.
type Result int

const (
	ResultWin Result = iota
	ResultLoss
)

// RoundResultSnapshot summarizes a finished round for the result sheet.
type RoundResultSnapshot struct {
	Result         Result
	Cards          []task.Card
	Translation    string
	Errors         int
	ElapsedSeconds int
	LevelID        int
	Round          int
	HasMoreRounds  bool
	Audio          string
}

func newSnapshot(st RoundState, hasMore bool) RoundResultSnapshot {
	snap := RoundResultSnapshot{
		Result:         ResultWin,
		Cards:          st.CompletedCards(),
		Errors:         st.Errors,
		ElapsedSeconds: st.Elapsed,
		LevelID:        st.LevelID,
		Round:          st.Round,
		HasMoreRounds:  hasMore,
		Audio:          st.Sentence.AudioFilename,
	}
	if st.TaskType == level.TaskAudition {
		snap.Translation = st.Sentence.Translation
	}
	return snap
}
