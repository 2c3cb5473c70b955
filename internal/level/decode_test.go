package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLevel = `{
  "levelId": "1",
  "extraRootKey": true,
  "cards": [
    {
      "uiDisplayTitle": "אני גר שם",
      "translationPrompt": "I live there",
      "taskType": "ASSEMBLE_TRANSLATION",
      "taskTargetCards": ["אני", "גר"],
      "distractorOptions": ["הוא"],
      "audioFilename": "l1_r0.mp3",
      "segments": [{"text": "אני", "start_ms": 0, "end_ms": 400}],
      "unknownField": {"nested": 1}
    },
    {
      "uiDisplayTitle": "words",
      "taskType": "MATCHING_PAIRS",
      "taskPairs": [["שלום", "hello"], ["כן", "yes"]],
      "swapColumns": true
    }
  ]
}`

func TestDecode(t *testing.T) {
	lf, warnings, err := Decode([]byte(sampleLevel))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "1", lf.LevelID)
	require.Len(t, lf.Sentences, 2)

	first := lf.Sentences[0]
	assert.Equal(t, "אני גר שם", first.Text)
	assert.Equal(t, "I live there", first.Translation)
	assert.Equal(t, TaskAssembleTranslation, first.TaskType)
	assert.Equal(t, []string{"אני", "גר"}, first.TargetCards)
	assert.Equal(t, []string{"הוא"}, first.Distractors)
	assert.Nil(t, first.Pairs)
	assert.True(t, first.HasAudio())
	assert.Equal(t, []AudioSegment{{Text: "אני", StartMs: 0, EndMs: 400}}, first.Segments)

	second := lf.Sentences[1]
	assert.Equal(t, TaskMatchingPairs, second.TaskType)
	assert.True(t, second.SwapColumns)
	assert.Equal(t, []Pair{{"שלום", "hello"}, {"כן", "yes"}}, second.Pairs)
	assert.False(t, second.HasAudio())
}

func TestDecode_DegradesOptionalFields(t *testing.T) {
	data := `{"levelId": 7, "cards": [{
		"uiDisplayTitle": "שלום",
		"taskType": "SOMETHING_NEW",
		"swapColumns": "yes please",
		"taskTargetCards": "not-a-list",
		"distractorOptions": ["a", {"x": 1}, 3],
		"taskPairs": [["only"], "bad-row"],
		"segments": [{"start_ms": "zero", "end_ms": 1}]
	}]}`

	lf, warnings, err := Decode([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "7", lf.LevelID)
	require.Len(t, lf.Sentences, 1)

	s := lf.Sentences[0]
	assert.Equal(t, "שלום", s.Text)
	assert.Equal(t, TaskUnknown, s.TaskType)
	assert.False(t, s.SwapColumns)
	assert.Nil(t, s.TargetCards)
	assert.Equal(t, []string{"a", "3"}, s.Distractors)
	assert.Equal(t, []Pair{{Hebrew: "only"}}, s.Pairs)
	assert.Empty(t, s.Segments)
	assert.NotEmpty(t, warnings)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"cards": [`},
		{"array root", `[]`},
		{"cards not array", `{"levelId": "1", "cards": {}}`},
		{"no cards", `{"levelId": "1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformedFile)
		})
	}
}

func TestParseTaskType(t *testing.T) {
	tests := []struct {
		in   string
		want TaskType
	}{
		{"FILL_IN_BLANK", TaskFillInBlank},
		{"conjugation", TaskConjugation},
		{" AUDITION ", TaskAudition},
		{"UNKNOWN", TaskUnknown},
		{"", TaskUnknown},
		{"DICTATION", TaskUnknown},
	}
	for _, tt := range tests {
		if got := ParseTaskType(tt.in); got != tt.want {
			t.Errorf("ParseTaskType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]byte(sampleLevel)))

	err := Validate([]byte(`{"levelId": "1", "cards": [{"taskType": "QUIZ"}]}`))
	assert.Error(t, err, "missing uiDisplayTitle should fail the schema")
}
