package drafting

import (
	"testing"

	"github.com/abhisek/ivrit/internal/level"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name string
		s    level.SentenceData
		want string // failing validator, empty for pass
	}{
		{
			name: "assemble ok",
			s:    level.SentenceData{Text: "אני גר", TaskType: level.TaskAssembleTranslation, TargetCards: []string{"אני", "גר"}},
		},
		{
			name: "target twice needs two occurrences",
			s:    level.SentenceData{Text: "גר גר", TaskType: level.TaskAssembleTranslation, TargetCards: []string{"גר", "גר", "גר"}},
			want: "tokens",
		},
		{
			name: "target not a whole word",
			s:    level.SentenceData{Text: "בבית", TaskType: level.TaskAudition, TargetCards: []string{"בית"}},
			want: "tokens",
		},
		{
			name: "fill blank count mismatch",
			s:    level.SentenceData{Text: "___ ___", TaskType: level.TaskFillInBlank, TargetCards: []string{"א"}},
			want: "tokens",
		},
		{
			name: "quiz targets from options",
			s: level.SentenceData{Text: "?", TaskType: level.TaskQuiz,
				CorrectOptions: []string{"כן", "תודה"}, TargetCards: []string{"תודה"}},
		},
		{
			name: "quiz without options",
			s:    level.SentenceData{Text: "?", TaskType: level.TaskQuiz, TargetCards: []string{"כן"}},
			want: "structural",
		},
		{
			name: "conjugation ok",
			s: level.SentenceData{Text: "לאכול", TaskType: level.TaskConjugation, TargetCards: []string{"אוכל", "אוכלת"},
				Pairs: []level.Pair{{Hebrew: "אני", Translation: "אוכל"}, {Hebrew: "את", Translation: "אוכלת"}}},
		},
		{
			name: "conjugation empty column",
			s: level.SentenceData{Text: "לאכול", TaskType: level.TaskConjugation, TargetCards: []string{"אוכל"},
				Pairs: []level.Pair{{Hebrew: "אני"}}},
			want: "structural",
		},
		{
			name: "matching pairs without targets",
			s: level.SentenceData{Text: "חיות", TaskType: level.TaskMatchingPairs,
				Pairs: []level.Pair{{Hebrew: "כלב", Translation: "dog"}}},
		},
		{
			name: "unknown task",
			s:    level.SentenceData{Text: "x", TaskType: level.TaskUnknown},
			want: "structural",
		},
	}

	validators := DefaultConfig().Validators
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ""
			for _, v := range validators {
				if err := v.Validate(tt.s); err != nil {
					got = err.Validator
					break
				}
			}
			if got != tt.want {
				t.Fatalf("failing validator = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 5); got != "None" {
		t.Fatalf("buildDedup(nil) = %q", got)
	}
	got := buildDedup([]string{"a", "b", "c"}, 2)
	if got != "1. b\n2. c" {
		t.Fatalf("buildDedup = %q", got)
	}
}
