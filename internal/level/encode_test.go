package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestEncode_DecodesBack(t *testing.T) {
	lf := LevelFile{
		LevelID: "7",
		Sentences: []SentenceData{
			{
				Text:          "אני גר בבית",
				Translation:   "Я живу в доме",
				AudioFilename: "l7_0.mp3",
				TaskType:      TaskAssembleTranslation,
				TargetCards:   []string{"גר", "בבית"},
				Segments:      []AudioSegment{{Text: "אני", StartMs: 0, EndMs: 400}},
			},
			{
				TaskType:    TaskConjugation,
				Text:        "לאכול",
				SwapColumns: true,
				Pairs:       []Pair{{Hebrew: "אני", Translation: "אוכל"}},
			},
		},
	}

	data, err := Encode(lf)
	require.NoError(t, err)
	require.NoError(t, Validate(data))

	got, warnings, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, lf, got)
}

func TestEncode_OmitsEmptyFields(t *testing.T) {
	data, err := Encode(LevelFile{LevelID: "1", Sentences: []SentenceData{{Text: "שלום", TaskType: TaskAudition}}})
	require.NoError(t, err)

	card := gjson.GetBytes(data, "cards.0")
	assert.Equal(t, "שלום", card.Get("uiDisplayTitle").String())
	assert.False(t, card.Get("gamePrompt").Exists())
	assert.False(t, card.Get("swapColumns").Exists())
	assert.False(t, card.Get("taskPairs").Exists())
}
