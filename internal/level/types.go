package level

import "strings"

// TaskType identifies the kind of exercise a sentence record drives.
type TaskType string

const (
	TaskAssembleTranslation TaskType = "ASSEMBLE_TRANSLATION"
	TaskFillInBlank         TaskType = "FILL_IN_BLANK"
	TaskAudition            TaskType = "AUDITION"
	TaskQuiz                TaskType = "QUIZ"
	TaskMakeQuestion        TaskType = "MAKE_QUESTION"
	TaskMakeAnswer          TaskType = "MAKE_ANSWER"
	TaskConjugation         TaskType = "CONJUGATION"
	TaskMatchingPairs       TaskType = "MATCHING_PAIRS"
	TaskUnknown             TaskType = "UNKNOWN"
)

// AllTaskTypes returns every known task type except TaskUnknown.
func AllTaskTypes() []TaskType {
	return []TaskType{
		TaskAssembleTranslation,
		TaskFillInBlank,
		TaskAudition,
		TaskQuiz,
		TaskMakeQuestion,
		TaskMakeAnswer,
		TaskConjugation,
		TaskMatchingPairs,
	}
}

// ParseTaskType maps a serialized tag to a TaskType. Unrecognized tags become
// TaskUnknown rather than an error.
func ParseTaskType(s string) TaskType {
	t := TaskType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllTaskTypes() {
		if t == known {
			return t
		}
	}
	return TaskUnknown
}

// DisplayName returns a short human-readable title for the task type.
func (t TaskType) DisplayName() string {
	switch t {
	case TaskAssembleTranslation:
		return "Assemble the sentence"
	case TaskFillInBlank:
		return "Fill in the blanks"
	case TaskAudition:
		return "Listen and assemble"
	case TaskQuiz:
		return "Quiz"
	case TaskMakeQuestion:
		return "Make the question"
	case TaskMakeAnswer:
		return "Make the answer"
	case TaskConjugation:
		return "Conjugation"
	case TaskMatchingPairs:
		return "New words"
	default:
		return "Unknown task"
	}
}

// AudioSegment is a timed slice of a round's audio file.
type AudioSegment struct {
	Text    string `json:"text"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

// Pair is one two-column row used by MATCHING_PAIRS and CONJUGATION.
type Pair struct {
	Hebrew      string
	Translation string
}

// SentenceData is one immutable round record loaded from a level file.
type SentenceData struct {
	// Text is the display text.
	Text          string
	GamePrompt    string
	Translation   string
	AudioFilename string
	Segments      []AudioSegment
	TaskType      TaskType
	Voice         string
	SwapColumns   bool

	// CorrectOptions is the correct-answer token list.
	CorrectOptions []string
	// TargetCards lists the tokens that become blanks.
	TargetCards []string
	// Distractors are decoy tokens with no bound blank.
	Distractors []string
	// Pairs is nil when the record has no pair list.
	Pairs []Pair
}

// HasAudio reports whether the record references an audio file.
func (s SentenceData) HasAudio() bool {
	return s.AudioFilename != ""
}

// LevelFile is the decoded root of a level_N.json file.
type LevelFile struct {
	LevelID   string
	Sentences []SentenceData
}

// Meta summarizes a level for map building.
type Meta struct {
	LevelID     int
	TotalRounds int
}
