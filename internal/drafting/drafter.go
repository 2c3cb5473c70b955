// Package drafting asks an LLM for new level files, checks every sentence
// against the game's own tokenizer and assembler, and writes the survivors.
package drafting

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/afero"

	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/llm"
)

var (
	// ErrEmptyDraft is returned when no drafted sentence survives validation.
	ErrEmptyDraft = errors.New("no valid sentences in draft")
	// ErrLevelExists is returned when writing over an existing level file.
	ErrLevelExists = errors.New("level file already exists")
)

// Levels is the level data the drafter reads.
type Levels interface {
	LevelIDs() ([]int, error)
	Sentences(ctx context.Context, levelID int) []level.SentenceData
	Invalidate(levelID int)
}

// Request describes a level to draft.
type Request struct {
	Topic     string
	Count     int
	TaskTypes []level.TaskType
	// Locale selects the translation language.
	Locale string
	// LevelID is the id to write; zero picks the next free id.
	LevelID int
}

// Draft is a validated level ready to be written.
type Draft struct {
	LevelID int
	File    level.LevelFile
	// Dropped explains every sentence that failed validation.
	Dropped []string
}

// Drafter generates level files.
type Drafter struct {
	provider llm.Provider
	levels   Levels
	fs       afero.Fs
	dir      string
	config   Config
	logger   *slog.Logger
}

// New creates a Drafter writing level files into dir on fs.
func New(provider llm.Provider, levels Levels, fs afero.Fs, dir string, cfg Config) *Drafter {
	return &Drafter{
		provider: provider,
		levels:   levels,
		fs:       fs,
		dir:      dir,
		config:   cfg,
		logger:   slog.Default().With("component", "drafting"),
	}
}

// Draft generates and validates a level without writing it.
func (d *Drafter) Draft(ctx context.Context, req Request) (*Draft, error) {
	if req.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if req.Count <= 0 {
		req.Count = 10
	}
	if d.config.MaxSentences > 0 {
		req.Count = min(req.Count, d.config.MaxSentences)
	}

	ids, err := d.levels.LevelIDs()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	id := req.LevelID
	if id == 0 {
		id = 1
		if len(ids) > 0 {
			id = slices.Max(ids) + 1
		}
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeLevelDraft)
	resp, err := d.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, d.prior(ctx, ids), d.config)},
		},
		Schema:      DraftSchema,
		MaxTokens:   d.config.MaxTokens,
		Temperature: d.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	lf, warnings, err := level.Decode(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	for _, w := range warnings {
		d.logger.Warn("draft field degraded", "detail", w)
	}

	draft := &Draft{LevelID: id, File: level.LevelFile{LevelID: strconv.Itoa(id)}}
	for i, s := range lf.Sentences {
		if verr := d.validate(s); verr != nil {
			draft.Dropped = append(draft.Dropped, fmt.Sprintf("cards[%d] %q: %s", i, s.Text, verr))
			d.logger.Warn("drafted sentence dropped", "index", i, "err", verr)
			continue
		}
		if s.AudioFilename == "" {
			s.AudioFilename = fmt.Sprintf("level_%d_%d.mp3", id, len(draft.File.Sentences))
		}
		draft.File.Sentences = append(draft.File.Sentences, s)
	}
	if len(draft.File.Sentences) == 0 {
		return draft, ErrEmptyDraft
	}
	return draft, nil
}

func (d *Drafter) validate(s level.SentenceData) *ValidationError {
	for _, v := range d.config.Validators {
		if err := v.Validate(s); err != nil {
			return err
		}
	}
	return nil
}

// prior lists existing sentence texts in level order.
func (d *Drafter) prior(ctx context.Context, ids []int) []string {
	var out []string
	for _, id := range ids {
		for _, s := range d.levels.Sentences(ctx, id) {
			if s.Text != "" {
				out = append(out, s.Text)
			}
		}
	}
	return out
}

// Write stores the draft as level_N.json and returns its path. Existing
// files are kept unless overwrite is set.
func (d *Drafter) Write(draft *Draft, overwrite bool) (string, error) {
	path := filepath.Join(d.dir, level.FileName(draft.LevelID))
	exists, err := afero.Exists(d.fs, path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if exists && !overwrite {
		return "", fmt.Errorf("%s: %w", path, ErrLevelExists)
	}

	data, err := level.Encode(draft.File)
	if err != nil {
		return "", err
	}
	if err := d.fs.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create levels dir: %w", err)
	}
	if err := afero.WriteFile(d.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	d.levels.Invalidate(draft.LevelID)
	return path, nil
}
