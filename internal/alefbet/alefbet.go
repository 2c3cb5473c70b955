// Package alefbet is the alphabet ordering mini-game: the 22 letters are
// dealt shuffled and must be picked in alphabetical order.
package alefbet

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/ivrit/internal/progress"
)

// Letter is one card of the alphabet.
type Letter struct {
	ID     string
	Glyph  string
	Names  map[string]string // by locale
	Audio  string
	Offset int // alphabetical position
}

// Name returns the letter's name in locale, falling back to the default
// locale.
func (l Letter) Name(locale string) string {
	if n, ok := l.Names[locale]; ok {
		return n
	}
	return l.Names[progress.DefaultLocale]
}

type letterDef struct {
	glyph, ru, en, fr, es, audio string
}

var alphabet = []letterDef{
	{"א", "Алеф", "Alef", "Aleph", "Álef", "alef.mp3"},
	{"ב", "Бет", "Bet", "Beth", "Bet", "bet.mp3"},
	{"ג", "Гимель", "Gimel", "Gimel", "Guímel", "gimel.mp3"},
	{"ד", "Далет", "Dalet", "Daleth", "Dálet", "dalet.mp3"},
	{"ה", "Хэй", "He", "Hé", "He", "hey.mp3"},
	{"ו", "Вав", "Vav", "Vav", "Vav", "vav.mp3"},
	{"ז", "Заин", "Zayin", "Zayin", "Zayin", "zayin.mp3"},
	{"ח", "Хет", "Het", "Heth", "Jet", "chet.mp3"},
	{"ט", "Тет", "Tet", "Teth", "Tet", "tet.mp3"},
	{"י", "Йуд", "Yud", "Yod", "Yod", "yud.mp3"},
	{"כ", "Каф", "Kaf", "Kaph", "Kaf", "kaf.mp3"},
	{"ל", "Ламед", "Lamed", "Lamed", "Lámed", "lamed.mp3"},
	{"מ", "Мем", "Mem", "Mem", "Mem", "mem.mp3"},
	{"נ", "Нун", "Nun", "Nun", "Nun", "nun.mp3"},
	{"ס", "Самех", "Samekh", "Samekh", "Sámej", "samech.mp3"},
	{"ע", "Аин", "Ayin", "Ayin", "Ayin", "ayin.mp3"},
	{"פ", "Пей", "Pei", "Pé", "Pe", "pey.mp3"},
	{"צ", "Цади", "Tzadi", "Tsadi", "Tsadi", "tzadi.mp3"},
	{"ק", "Коф", "Kof", "Qoph", "Qof", "kof.mp3"},
	{"ר", "Рейш", "Reish", "Resh", "Resh", "resh.mp3"},
	{"ש", "Шин", "Shin", "Shin", "Shin", "shin.mp3"},
	{"ת", "Тав", "Tav", "Tav", "Tav", "tav.mp3"},
}

// Alphabet returns the letters in order.
func Alphabet() []Letter {
	out := make([]Letter, len(alphabet))
	for i, s := range alphabet {
		out[i] = Letter{
			ID:     uuid.NewString(),
			Glyph:  s.glyph,
			Names:  map[string]string{"ru": s.ru, "en": s.en, "fr": s.fr, "es": s.es},
			Audio:  s.audio,
			Offset: i,
		}
	}
	return out
}

// Counter persists finished games.
type Counter interface {
	AlefbetCompletions(ctx context.Context) int
	IncrementAlefbetCompletions(ctx context.Context) (int, error)
}

// Outcome of a pick.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeCorrect
	OutcomeIncorrect
)

// Game is one alphabet run.
type Game struct {
	counter Counter
	rng     *rand.Rand

	Available   []Letter
	Selected    []Letter
	Errors      int
	ErrorID     string
	Won         bool
	Completions int
}

// New deals a shuffled alphabet.
func New(ctx context.Context, counter Counter, rng *rand.Rand) *Game {
	g := &Game{counter: counter, rng: rng, Completions: counter.AlefbetCompletions(ctx)}
	g.Shuffle()
	return g
}

// Shuffle redeals the letters and clears the run.
func (g *Game) Shuffle() {
	g.Available = Alphabet()
	g.rng.Shuffle(len(g.Available), func(i, j int) {
		g.Available[i], g.Available[j] = g.Available[j], g.Available[i]
	})
	g.Selected = nil
	g.Errors = 0
	g.ErrorID = ""
	g.Won = false
}

// Pick selects Available[idx]. Picks after a win, of an already selected
// letter or out of range are ignored.
func (g *Game) Pick(ctx context.Context, idx int) (Outcome, error) {
	if g.Won || idx < 0 || idx >= len(g.Available) {
		return OutcomeIgnored, nil
	}
	l := g.Available[idx]
	if slices.ContainsFunc(g.Selected, func(s Letter) bool { return s.ID == l.ID }) {
		return OutcomeIgnored, nil
	}
	if l.Offset != len(g.Selected) {
		g.Errors++
		g.ErrorID = l.ID
		return OutcomeIncorrect, nil
	}

	g.Selected = append(g.Selected, l)
	g.ErrorID = ""
	if len(g.Selected) == len(alphabet) {
		g.Won = true
		n, err := g.counter.IncrementAlefbetCompletions(ctx)
		if err != nil {
			return OutcomeCorrect, err
		}
		g.Completions = n
	}
	return OutcomeCorrect, nil
}

// Lines splits the picked letters into two display lines. Cursive glyphs are
// wider so the break comes one letter earlier.
func (g *Game) Lines(style progress.FontStyle) (string, string) {
	brk := 12
	if style == progress.FontCursive {
		brk = 11
	}
	var b strings.Builder
	for _, l := range g.Selected {
		b.WriteString(l.Glyph)
	}
	letters := []rune(b.String())
	if len(letters) <= brk {
		return string(letters), ""
	}
	return string(letters[:brk]), string(letters[brk:])
}
