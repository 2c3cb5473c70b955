package level

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrMalformedFile is returned when a level file is not a JSON object with a
// card array. Problems inside individual fields never produce an error.
var ErrMalformedFile = errors.New("malformed level file")

// Decode parses a level file leniently: unknown keys are ignored and any
// optional field whose value has the wrong type falls back to its zero value.
// Each degraded field is reported in the returned warnings.
func Decode(data []byte) (LevelFile, []string, error) {
	if !gjson.ValidBytes(data) {
		return LevelFile{}, nil, fmt.Errorf("%w: invalid JSON", ErrMalformedFile)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return LevelFile{}, nil, fmt.Errorf("%w: root is not an object", ErrMalformedFile)
	}

	cards := root.Get("cards")
	if !cards.IsArray() {
		return LevelFile{}, nil, fmt.Errorf("%w: \"cards\" is not an array", ErrMalformedFile)
	}

	d := &decoder{}
	lf := LevelFile{LevelID: d.scalarString(root.Get("levelId"), "levelId")}
	for i, card := range cards.Array() {
		d.prefix = fmt.Sprintf("cards[%d].", i)
		if !card.IsObject() {
			d.warn("", "not an object, using empty record")
			lf.Sentences = append(lf.Sentences, SentenceData{TaskType: TaskUnknown})
			continue
		}
		lf.Sentences = append(lf.Sentences, d.sentence(card))
	}
	return lf, d.warnings, nil
}

type decoder struct {
	prefix   string
	warnings []string
}

func (d *decoder) warn(field, msg string) {
	d.warnings = append(d.warnings, d.prefix+field+": "+msg)
}

func (d *decoder) sentence(card gjson.Result) SentenceData {
	s := SentenceData{
		Text:           d.scalarString(card.Get("uiDisplayTitle"), "uiDisplayTitle"),
		GamePrompt:     d.scalarString(card.Get("gamePrompt"), "gamePrompt"),
		Translation:    d.scalarString(card.Get("translationPrompt"), "translationPrompt"),
		AudioFilename:  d.scalarString(card.Get("audioFilename"), "audioFilename"),
		Voice:          d.scalarString(card.Get("voice"), "voice"),
		SwapColumns:    d.boolean(card.Get("swapColumns"), "swapColumns"),
		CorrectOptions: d.stringList(card.Get("correctOptions"), "correctOptions"),
		TargetCards:    d.stringList(card.Get("taskTargetCards"), "taskTargetCards"),
		Distractors:    d.stringList(card.Get("distractorOptions"), "distractorOptions"),
		Segments:       d.segments(card.Get("segments")),
		Pairs:          d.pairs(card.Get("taskPairs")),
	}

	tt := card.Get("taskType")
	switch {
	case !tt.Exists() || tt.Type == gjson.Null:
		s.TaskType = TaskUnknown
	case tt.Type == gjson.String:
		s.TaskType = ParseTaskType(tt.Str)
		if s.TaskType == TaskUnknown {
			d.warn("taskType", fmt.Sprintf("unknown task type %q", tt.Str))
		}
	default:
		d.warn("taskType", "not a string")
		s.TaskType = TaskUnknown
	}
	return s
}

// scalarString accepts strings and numbers; anything else degrades to "".
func (d *decoder) scalarString(r gjson.Result, field string) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	case gjson.Null:
		return ""
	}
	if !r.Exists() {
		return ""
	}
	d.warn(field, "expected string")
	return ""
}

func (d *decoder) boolean(r gjson.Result, field string) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False, gjson.Null:
		return false
	case gjson.String:
		if b, err := strconv.ParseBool(r.Str); err == nil {
			return b
		}
	}
	if !r.Exists() {
		return false
	}
	d.warn(field, "expected boolean")
	return false
}

// stringList returns nil when the field is absent or null. Non-scalar
// elements are dropped individually.
func (d *decoder) stringList(r gjson.Result, field string) []string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if !r.IsArray() {
		d.warn(field, "expected array")
		return nil
	}
	out := make([]string, 0, len(r.Array()))
	for i, el := range r.Array() {
		switch el.Type {
		case gjson.String:
			out = append(out, el.Str)
		case gjson.Number:
			out = append(out, el.Raw)
		default:
			d.warn(fmt.Sprintf("%s[%d]", field, i), "dropped non-string element")
		}
	}
	return out
}

func (d *decoder) segments(r gjson.Result) []AudioSegment {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if !r.IsArray() {
		d.warn("segments", "expected array")
		return nil
	}
	var out []AudioSegment
	for i, el := range r.Array() {
		start, end := el.Get("start_ms"), el.Get("end_ms")
		if !el.IsObject() || start.Type != gjson.Number || end.Type != gjson.Number {
			d.warn(fmt.Sprintf("segments[%d]", i), "dropped malformed segment")
			continue
		}
		out = append(out, AudioSegment{
			Text:    el.Get("text").String(),
			StartMs: start.Int(),
			EndMs:   end.Int(),
		})
	}
	return out
}

// pairs decodes [[hebrew, translation], ...]. Rows with fewer than two
// elements keep what they have; rows that are not arrays are dropped.
func (d *decoder) pairs(r gjson.Result) []Pair {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if !r.IsArray() {
		d.warn("taskPairs", "expected array")
		return nil
	}
	out := make([]Pair, 0, len(r.Array()))
	for i, row := range r.Array() {
		if !row.IsArray() {
			d.warn(fmt.Sprintf("taskPairs[%d]", i), "dropped non-array row")
			continue
		}
		cols := row.Array()
		var p Pair
		if len(cols) > 0 {
			p.Hebrew = cols[0].String()
		}
		if len(cols) > 1 {
			p.Translation = cols[1].String()
		}
		if len(cols) < 2 {
			d.warn(fmt.Sprintf("taskPairs[%d]", i), "row has fewer than two columns")
		}
		out = append(out, p)
	}
	return out
}
