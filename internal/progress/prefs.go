package progress

import (
	"context"
	"fmt"
	"slices"
	"strconv"
)

// FontStyle selects the Hebrew typeface style.
type FontStyle string

const (
	FontRegular FontStyle = "REGULAR"
	FontCursive FontStyle = "CURSIVE"
)

// Locales lists the supported UI languages for translations.
var Locales = []string{"ru", "en", "fr", "es"}

const (
	DefaultLocale          = "ru"
	DefaultJournalFontSize = 32.0

	keyLevel1FontStyle  = "level1_font_style"
	keyJournalFontSize  = "journal_font_size_v2"
	keyJournalFontStyle = "journal_font_style_v2"
	keyAlefbetCount     = "alefbet_completion_count"
)

// Locale returns the persisted UI language, or DefaultLocale.
func (s *Store) Locale(ctx context.Context) string {
	v, ok := s.pref(ctx, keyLocale)
	if !ok || !slices.Contains(Locales, v) {
		return DefaultLocale
	}
	return v
}

// SetLocale persists the UI language.
func (s *Store) SetLocale(ctx context.Context, locale string) error {
	if !slices.Contains(Locales, locale) {
		return fmt.Errorf("unsupported locale %q", locale)
	}
	return s.kv.Put(ctx, keyLocale, locale)
}

// FontStyleFor returns the font style to use in a level. Only level 1 has a
// configurable style, which defaults to cursive.
func (s *Store) FontStyleFor(ctx context.Context, levelID int) FontStyle {
	if levelID != 1 {
		return FontRegular
	}
	return s.fontStyle(ctx, keyLevel1FontStyle, FontCursive)
}

// ToggleLevel1FontStyle flips the level 1 font style and returns the new one.
func (s *Store) ToggleLevel1FontStyle(ctx context.Context) (FontStyle, error) {
	next := FontCursive
	if s.FontStyleFor(ctx, 1) == FontCursive {
		next = FontRegular
	}
	if err := s.kv.Put(ctx, keyLevel1FontStyle, string(next)); err != nil {
		return "", err
	}
	return next, nil
}

// JournalFontStyle returns the journal font style, defaulting to regular.
func (s *Store) JournalFontStyle(ctx context.Context) FontStyle {
	return s.fontStyle(ctx, keyJournalFontStyle, FontRegular)
}

// SetJournalFontStyle persists the journal font style.
func (s *Store) SetJournalFontStyle(ctx context.Context, style FontStyle) error {
	if style != FontRegular && style != FontCursive {
		return fmt.Errorf("unknown font style %q", style)
	}
	return s.kv.Put(ctx, keyJournalFontStyle, string(style))
}

// JournalFontSize returns the journal font size in points.
func (s *Store) JournalFontSize(ctx context.Context) float64 {
	v, ok := s.pref(ctx, keyJournalFontSize)
	if !ok {
		return DefaultJournalFontSize
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return DefaultJournalFontSize
	}
	return f
}

// SetJournalFontSize persists the journal font size.
func (s *Store) SetJournalFontSize(ctx context.Context, size float64) error {
	if size <= 0 {
		return fmt.Errorf("font size must be positive, got %v", size)
	}
	return s.kv.Put(ctx, keyJournalFontSize, strconv.FormatFloat(size, 'f', -1, 64))
}

// AlefbetCompletions returns how many times the alphabet game was finished.
func (s *Store) AlefbetCompletions(ctx context.Context) int {
	v, ok := s.pref(ctx, keyAlefbetCount)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// IncrementAlefbetCompletions adds one to the alphabet completion counter.
func (s *Store) IncrementAlefbetCompletions(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.AlefbetCompletions(ctx) + 1
	if err := s.kv.Put(ctx, keyAlefbetCount, strconv.Itoa(n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) fontStyle(ctx context.Context, key string, def FontStyle) FontStyle {
	v, ok := s.pref(ctx, key)
	switch FontStyle(v) {
	case FontRegular, FontCursive:
		if ok {
			return FontStyle(v)
		}
	}
	return def
}

// pref reads a preference key; read failures are logged and look like an
// unset preference.
func (s *Store) pref(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("read preference", "key", key, "err", err)
		return "", false
	}
	return v, ok
}
