package drafting

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/abhisek/ivrit/internal/hebrew"
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/task"
)

// Validator checks a drafted sentence.
type Validator interface {
	// Name identifies the validator in warnings, e.g. "structural".
	Name() string

	// Validate returns nil if the sentence passes.
	Validate(s level.SentenceData) *ValidationError
}

// ValidationError describes why a sentence was dropped.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks required fields per task type.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(s level.SentenceData) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}
	if s.TaskType == level.TaskUnknown {
		return fail("unknown task type")
	}
	if strings.TrimSpace(s.Text) == "" {
		return fail("empty uiDisplayTitle")
	}
	switch s.TaskType {
	case level.TaskConjugation, level.TaskMatchingPairs:
		if len(s.Pairs) == 0 {
			return fail("%s needs taskPairs", s.TaskType)
		}
		for i, p := range s.Pairs {
			if strings.TrimSpace(p.Hebrew) == "" || strings.TrimSpace(p.Translation) == "" {
				return fail("taskPairs[%d] has an empty column", i)
			}
		}
	case level.TaskQuiz, level.TaskMakeQuestion, level.TaskMakeAnswer:
		if len(s.CorrectOptions) == 0 {
			return fail("%s needs correctOptions", s.TaskType)
		}
	}
	if s.TaskType != level.TaskMatchingPairs && len(s.TargetCards) == 0 {
		return fail("no taskTargetCards")
	}
	return nil
}

// TokenValidator checks targets against the tokenized source text.
type TokenValidator struct{}

func (v *TokenValidator) Name() string { return "tokens" }

func (v *TokenValidator) Validate(s level.SentenceData) *ValidationError {
	var source []string
	switch s.TaskType {
	case level.TaskAssembleTranslation, level.TaskAudition:
		source = hebrew.Words(s.Text)
	case level.TaskQuiz, level.TaskMakeQuestion, level.TaskMakeAnswer:
		source = hebrew.Words(strings.Join(s.CorrectOptions, " "))
	case level.TaskFillInBlank:
		if n := strings.Count(s.Text, task.BlankMarker); n != len(s.TargetCards) {
			return &ValidationError{Validator: v.Name(),
				Message: fmt.Sprintf("%d blanks for %d targets", n, len(s.TargetCards))}
		}
		return nil
	case level.TaskConjugation:
		for _, p := range s.Pairs {
			col := p.Translation
			if s.SwapColumns {
				col = p.Hebrew
			}
			source = append(source, hebrew.Words(col)...)
		}
	default:
		return nil
	}

	for _, t := range s.TargetCards {
		i := slices.Index(source, strings.TrimSpace(t))
		if i < 0 {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("target %q is not a word of the text", t)}
		}
		// Each occurrence binds one target.
		source = slices.Delete(source, i, i+1)
	}
	return nil
}

// PlayableValidator assembles the round and requires at least one blank.
type PlayableValidator struct{}

func (v *PlayableValidator) Name() string { return "playable" }

func (v *PlayableValidator) Validate(s level.SentenceData) *ValidationError {
	l := task.Assemble(s, s.TaskType, nil, rand.New(rand.NewPCG(1, 2)))
	if len(l.Slots) == 0 {
		return &ValidationError{Validator: v.Name(), Message: "no slots"}
	}
	if s.TaskType != level.TaskMatchingPairs && l.Blanks() == 0 {
		return &ValidationError{Validator: v.Name(), Message: "no blanks to fill"}
	}
	return nil
}
