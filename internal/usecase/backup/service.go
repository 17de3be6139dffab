package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/eslsoft/speaktrack/internal/usecase"
	"github.com/sirupsen/logrus"
)

const formatVersion = 1

// Sections of a backup document.
const (
	SectionWeakWords     = "weak_words"
	SectionSavedPhrases  = "saved_phrases"
	SectionSessionCount  = "session_count"
	SectionMasteredWords = "mastered_words"
	SectionSettings      = "settings"
	SectionWeeklyGoal    = "weekly_goal"
)

// DefaultSections is what a plain export carries.
var DefaultSections = []string{SectionWeakWords, SectionSavedPhrases, SectionSessionCount}

// AllSections lists every section the service understands.
var AllSections = []string{
	SectionWeakWords, SectionSavedPhrases, SectionSessionCount,
	SectionMasteredWords, SectionSettings, SectionWeeklyGoal,
}

var errNoSectionsSelected = fmt.Errorf("%w: no sections selected", entity.ErrInvalidBackup)

// Document is the JSON layout of an export: the progress summary plus optional sections.
type Document struct {
	Version       int                   `json:"version,omitempty"`
	ExportedAt    *time.Time            `json:"exported_at,omitempty"`
	WeakWords     []entity.WeakWord     `json:"weak_words"`
	SavedPhrases  []entity.SavedPhrase  `json:"saved_phrases"`
	SessionCount  int                   `json:"session_count"`
	Stats         entity.ProgressStats  `json:"stats"`
	MasteredWords []entity.MasteredWord `json:"mastered_words,omitempty"`
	Settings      *entity.UserSettings  `json:"settings,omitempty"`
	WeeklyGoal    int                   `json:"weekly_goal,omitempty"`
}

// importDocument distinguishes absent sections from empty ones.
type importDocument struct {
	Version       int                    `json:"version"`
	WeakWords     *[]entity.WeakWord     `json:"weak_words"`
	SavedPhrases  *[]importedPhrase      `json:"saved_phrases"`
	SessionCount  int                    `json:"session_count"`
	MasteredWords *[]entity.MasteredWord `json:"mastered_words"`
	Settings      *entity.UserSettings   `json:"settings"`
	WeeklyGoal    int                    `json:"weekly_goal"`
}

// importedPhrase also accepts the first-generation {phrase, saved_at} layout.
type importedPhrase struct {
	entity.SavedPhrase
	Phrase  string     `json:"phrase"`
	SavedAt *time.Time `json:"saved_at"`
}

func (p importedPhrase) current() entity.SavedPhrase {
	phrase := p.SavedPhrase
	if strings.TrimSpace(phrase.TextEN) == "" && strings.TrimSpace(p.Phrase) != "" {
		phrase.TextEN = strings.TrimSpace(p.Phrase)
		if p.SavedAt != nil {
			phrase.CreatedAt = *p.SavedAt
		}
	}
	return phrase
}

// ImportResult reports what an import wrote.
type ImportResult struct {
	Sections     []string `json:"sections"`
	WeakWords    int      `json:"weak_words"`
	SavedPhrases int      `json:"saved_phrases"`
	SessionCount int      `json:"session_count"`
}

type Service struct {
	repos    repository.Factory
	progress usecase.ProgressUsecase
	logger   logrus.FieldLogger
	clock    func() time.Time
	indent   string
}

type Option func(*Service)

// WithIndent pretty-prints exports with the given indent.
func WithIndent(indent string) Option {
	return func(s *Service) {
		s.indent = indent
	}
}

// WithClock overrides the export timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService constructs a backup service over the learner repositories.
func NewService(repos repository.Factory, progress usecase.ProgressUsecase, logger logrus.FieldLogger, opts ...Option) *Service {
	svc := &Service{
		repos:    repos,
		progress: progress,
		logger:   logger,
		clock:    time.Now,
		indent:   "  ",
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type SectionOption func(*sectionConfig)

type sectionConfig struct {
	sections []string
}

// WithSections restricts an export or import to the named sections.
func WithSections(sections []string) SectionOption {
	return func(cfg *sectionConfig) {
		if len(sections) == 0 {
			return
		}
		cfg.sections = append([]string{}, sections...)
	}
}

func selectSections(defaults []string, opts []SectionOption) ([]string, error) {
	cfg := sectionConfig{sections: defaults}
	for _, opt := range opts {
		opt(&cfg)
	}
	selected := make([]string, 0, len(cfg.sections))
	for _, raw := range cfg.sections {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || slices.Contains(selected, name) {
			continue
		}
		if !slices.Contains(AllSections, name) {
			return nil, fmt.Errorf("%w: unknown section %q", entity.ErrInvalidBackup, raw)
		}
		selected = append(selected, name)
	}
	if len(selected) == 0 {
		return nil, errNoSectionsSelected
	}
	return selected, nil
}

// Export writes the learner's progress as a JSON document.
func (s *Service) Export(ctx context.Context, userID string, w io.Writer, opts ...SectionOption) error {
	sections, err := selectSections(DefaultSections, opts)
	if err != nil {
		return err
	}
	doc, err := s.Snapshot(ctx, userID, sections)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", s.indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Snapshot assembles the export document without serialising it.
func (s *Service) Snapshot(ctx context.Context, userID string, sections []string) (*Document, error) {
	summary, err := s.progress.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	r := s.repos.ForUser(strings.TrimSpace(userID))

	now := s.clock().UTC()
	doc := &Document{
		Version:      formatVersion,
		ExportedAt:   &now,
		WeakWords:    summary.WeakWords,
		SavedPhrases: summary.SavedPhrases,
		SessionCount: summary.SessionCount,
		Stats:        summary.Stats,
	}
	if !slices.Contains(sections, SectionWeakWords) {
		doc.WeakWords = []entity.WeakWord{}
	}
	if !slices.Contains(sections, SectionSavedPhrases) {
		doc.SavedPhrases = []entity.SavedPhrase{}
	}
	if !slices.Contains(sections, SectionSessionCount) {
		doc.SessionCount = 0
	}
	if slices.Contains(sections, SectionMasteredWords) {
		if doc.MasteredWords, err = r.MasteredWords.List(ctx); err != nil {
			return nil, err
		}
	}
	if slices.Contains(sections, SectionSettings) {
		settings, err := r.Settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		doc.Settings = &settings
	}
	if slices.Contains(sections, SectionWeeklyGoal) {
		if doc.WeeklyGoal, err = r.WeeklyGoal.Get(ctx); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Import reads a document produced by Export and overwrites the sections it carries.
// Absent sections and a zero session count leave stored data untouched.
func (s *Service) Import(ctx context.Context, userID string, rd io.Reader, opts ...SectionOption) (*ImportResult, error) {
	sections, err := selectSections(AllSections, opts)
	if err != nil {
		return nil, err
	}
	id, err := entity.NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	var doc importDocument
	if err := json.NewDecoder(rd).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidBackup, err)
	}
	if doc.Version > formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", entity.ErrInvalidBackup, doc.Version)
	}
	if doc.Settings != nil {
		if err := doc.Settings.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", entity.ErrInvalidBackup, err)
		}
	}

	r := s.repos.ForUser(id)
	result := &ImportResult{Sections: []string{}}
	wants := func(section string) bool { return slices.Contains(sections, section) }

	// Mastered words go first so imported weak words are checked against them.
	if doc.MasteredWords != nil && wants(SectionMasteredWords) {
		if err := r.MasteredWords.ReplaceAll(ctx, *doc.MasteredWords); err != nil {
			return nil, err
		}
		result.Sections = append(result.Sections, SectionMasteredWords)
	}
	if doc.WeakWords != nil && wants(SectionWeakWords) {
		if err := r.WeakWords.ReplaceAll(ctx, *doc.WeakWords); err != nil {
			return nil, err
		}
		stored, err := r.WeakWords.List(ctx, 0)
		if err != nil {
			return nil, err
		}
		result.Sections = append(result.Sections, SectionWeakWords)
		result.WeakWords = len(stored)
	}
	if doc.SavedPhrases != nil && wants(SectionSavedPhrases) {
		phrases := make([]entity.SavedPhrase, 0, len(*doc.SavedPhrases))
		for _, p := range *doc.SavedPhrases {
			phrases = append(phrases, p.current())
		}
		if err := r.Phrases.ReplaceAll(ctx, phrases); err != nil {
			return nil, err
		}
		stored, err := r.Phrases.List(ctx, nil)
		if err != nil {
			return nil, err
		}
		result.Sections = append(result.Sections, SectionSavedPhrases)
		result.SavedPhrases = len(stored)
	}
	if doc.SessionCount > 0 && wants(SectionSessionCount) {
		if err := r.Sessions.Set(ctx, doc.SessionCount); err != nil {
			return nil, err
		}
		result.Sections = append(result.Sections, SectionSessionCount)
		result.SessionCount = doc.SessionCount
	}
	if doc.Settings != nil && wants(SectionSettings) {
		if err := r.Settings.Save(ctx, *doc.Settings); err != nil {
			return nil, err
		}
		result.Sections = append(result.Sections, SectionSettings)
	}
	if doc.WeeklyGoal > 0 && wants(SectionWeeklyGoal) {
		if err := r.WeeklyGoal.Set(ctx, doc.WeeklyGoal); err != nil {
			return nil, err
		}
		result.Sections = append(result.Sections, SectionWeeklyGoal)
	}

	s.logger.WithField("user_id", id).WithField("sections", result.Sections).Info("backup imported")
	return result, nil
}
