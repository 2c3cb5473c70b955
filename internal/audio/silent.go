package audio

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// SilentPlayer checks that recordings exist and waits for their nominal
// length without producing sound.
type SilentPlayer struct {
	fs     afero.Fs
	dir    string
	length time.Duration
	logger *slog.Logger
}

// NewSilentPlayer returns a player resolving files under dir. length is the
// nominal duration of an unsegmented file at normal speed.
func NewSilentPlayer(fs afero.Fs, dir string, length time.Duration) *SilentPlayer {
	return &SilentPlayer{fs: fs, dir: dir, length: length, logger: slog.Default().With("component", "audio")}
}

func (p *SilentPlayer) Play(ctx context.Context, clip Clip) error {
	if clip.File == "" {
		return fmt.Errorf("empty file name: %w", ErrClipNotFound)
	}
	path := filepath.Join(p.dir, clip.File)
	if ok, err := afero.Exists(p.fs, path); err != nil || !ok {
		return fmt.Errorf("%s: %w", path, ErrClipNotFound)
	}

	d := p.length
	if clip.Segmented() {
		d = time.Duration(clip.EndMs-clip.StartMs) * time.Millisecond
	}
	d = time.Duration(float64(d) / clip.speed())
	p.logger.Debug("play", "clip", clip.String(), "duration", d)
	return sleep(ctx, d)
}

// SilentSpeaker waits a per-character duration for each utterance.
type SilentSpeaker struct {
	perRune time.Duration
	logger  *slog.Logger
}

// NewSilentSpeaker returns a speaker that takes perRune per character.
func NewSilentSpeaker(perRune time.Duration) *SilentSpeaker {
	return &SilentSpeaker{perRune: perRune, logger: slog.Default().With("component", "tts")}
}

func (s *SilentSpeaker) Speak(ctx context.Context, text string) error {
	d := time.Duration(utf8.RuneCountInString(text)) * s.perRune
	s.logger.Debug("speak", "text", text, "duration", d)
	return sleep(ctx, d)
}
