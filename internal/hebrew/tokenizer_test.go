package hebrew

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_ReconstructsInput(t *testing.T) {
	inputs := []string{
		"",
		"אני גר שם",
		"שָׁלוֹם, מה שלומך?",
		"שאלה\nתשובה.",
		"  רווחים  בהתחלה ",
		"Hi! אני Dan, 42 שנים.",
		"כתוב ___ כאן",
		"א\n\nב",
		"(סוגריים) \"מרכאות\" 🙂 סוף",
		"\r\nשורה",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, in, Join(Tokens(in)))
		})
	}
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokens(""))
}

func TestTokenize_Classification(t *testing.T) {
	got := Tokens("אני גר, שם?\nכן")
	want := []struct {
		kind TokenKind
		text string
	}{
		{KindWord, "אני"},
		{KindSeparator, " "},
		{KindWord, "גר"},
		{KindSeparator, ", "},
		{KindWord, "שם"},
		{KindSeparator, "?"},
		{KindNewline, "\n"},
		{KindWord, "כן"},
	}
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.kind, got[i].Kind, "token %d", i)
		assert.Equal(t, w.text, got[i].Text, "token %d", i)
	}
}

func TestTokenize_NewlinesAreSingle(t *testing.T) {
	got := Tokens("א\n\nב")
	require.Len(t, got, 4)
	assert.Equal(t, KindNewline, got[1].Kind)
	assert.Equal(t, KindNewline, got[2].Kind)
}

func TestTokenize_ApostropheAndGeresh(t *testing.T) {
	assert.Equal(t, []string{"ג'ירפה", "צ׳יפס"}, Words("ג'ירפה צ׳יפס"))
}

func TestTokenize_Offsets(t *testing.T) {
	s := "אב, גד"
	for tok := range Tokenize(s) {
		assert.Equal(t, tok.Text, s[tok.Offset:tok.Offset+len(tok.Text)])
	}
}

func TestTokenize_StopsEarly(t *testing.T) {
	n := 0
	for range Tokenize("א ב ג ד") {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestStripNikud(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"מָה?", "מה?"},
		{"שָׁלוֹם", "שלום"},
		{"שלום", "שלום"},
		{"hello", "hello"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripNikud(tt.in))
	}
}

func TestIsHebrew(t *testing.T) {
	assert.True(t, IsHebrew("שלום"))
	assert.True(t, IsHebrew("abc ש"))
	assert.False(t, IsHebrew("hello"))
	assert.False(t, IsHebrew(""))
}
