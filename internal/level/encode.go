package level

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Encode renders lf in the level file format that Decode reads. Empty
// optional fields are omitted.
func Encode(lf LevelFile) ([]byte, error) {
	out := []byte(`{"cards":[]}`)
	out, err := sjson.SetBytes(out, "levelId", lf.LevelID)
	if err != nil {
		return nil, fmt.Errorf("encode levelId: %w", err)
	}
	for i, s := range lf.Sentences {
		card, err := encodeSentence(s)
		if err != nil {
			return nil, fmt.Errorf("encode cards[%d]: %w", i, err)
		}
		if out, err = sjson.SetRawBytes(out, "cards.-1", card); err != nil {
			return nil, fmt.Errorf("append cards[%d]: %w", i, err)
		}
	}
	return out, nil
}

func encodeSentence(s SentenceData) ([]byte, error) {
	type field struct {
		path  string
		value any
		skip  bool
	}
	fields := []field{
		{"uiDisplayTitle", s.Text, false},
		{"taskType", string(s.TaskType), false},
		{"gamePrompt", s.GamePrompt, s.GamePrompt == ""},
		{"translationPrompt", s.Translation, s.Translation == ""},
		{"audioFilename", s.AudioFilename, s.AudioFilename == ""},
		{"voice", s.Voice, s.Voice == ""},
		{"swapColumns", s.SwapColumns, !s.SwapColumns},
		{"correctOptions", s.CorrectOptions, s.CorrectOptions == nil},
		{"taskTargetCards", s.TargetCards, s.TargetCards == nil},
		{"distractorOptions", s.Distractors, s.Distractors == nil},
	}

	card := []byte(`{}`)
	var err error
	for _, f := range fields {
		if f.skip {
			continue
		}
		if card, err = sjson.SetBytes(card, f.path, f.value); err != nil {
			return nil, fmt.Errorf("%s: %w", f.path, err)
		}
	}
	if s.Pairs != nil {
		rows := make([][]string, len(s.Pairs))
		for i, p := range s.Pairs {
			rows[i] = []string{p.Hebrew, p.Translation}
		}
		if card, err = sjson.SetBytes(card, "taskPairs", rows); err != nil {
			return nil, fmt.Errorf("taskPairs: %w", err)
		}
	}
	if len(s.Segments) > 0 {
		if card, err = sjson.SetBytes(card, "segments", s.Segments); err != nil {
			return nil, fmt.Errorf("segments: %w", err)
		}
	}
	return card, nil
}
