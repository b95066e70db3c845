// Package assistant runs the note-processing tasks: insights, adding a
// note, and searching. Each task collects notes, renders a prompt, queries
// the model once and parses the reply.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeanpaul/notewise/internal/llm"
	"github.com/jeanpaul/notewise/internal/notes"
	"github.com/jeanpaul/notewise/internal/parse"
	"github.com/jeanpaul/notewise/internal/prompt"
)

// DefaultInsightLimit is used when a caller asks for zero insights.
const DefaultInsightLimit = 5

var (
	// ErrNoNotes means the notes root holds nothing to analyze.
	ErrNoNotes = errors.New("no notes found")
	// ErrEmptyNote rejects adding a blank note.
	ErrEmptyNote = errors.New("note is empty")
)

type Assistant struct {
	client llm.Client
	store  *notes.Store
	logger *zap.Logger
	now    func() time.Time
}

func New(client llm.Client, store *notes.Store, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{client: client, store: store, logger: logger, now: time.Now}
}

func (a *Assistant) Client() llm.Client { return a.client }

// SetClient swaps the backend, e.g. after the shell switches service.
func (a *Assistant) SetClient(c llm.Client) { a.client = c }

func (a *Assistant) Store() *notes.Store { return a.store }

// GenerateInsights asks the model for up to limit observations across all
// notes. An unparseable reply yields no insights and no error.
func (a *Assistant) GenerateInsights(ctx context.Context, topic string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultInsightLimit
	}
	content, err := a.collect(ctx)
	if err != nil {
		return nil, err
	}

	reply, err := a.client.Query(ctx, prompt.Insights(content, topic, limit))
	if err != nil {
		return nil, fmt.Errorf("generate insights: %w", err)
	}
	insights := parse.Insights(reply, limit)
	a.logger.Debug("insights parsed", zap.Int("notes", len(content)), zap.Int("insights", len(insights)))
	return insights, nil
}

// AddResult describes a stored note.
type AddResult struct {
	// Path is the absolute file written; RelPath is relative to the notes root.
	Path    string
	RelPath string
	Content string
	// Categorized is false when the note was saved raw because the model failed.
	Categorized bool
	// QueryErr is the model failure that caused the raw save, if any.
	QueryErr error
}

// AddNote files text where the model suggests. If the model cannot be
// queried the raw text is saved under unsorted/ and the query error is
// reported on the result rather than returned.
func (a *Assistant) AddNote(ctx context.Context, text string) (AddResult, error) {
	if strings.TrimSpace(text) == "" {
		return AddResult{}, ErrEmptyNote
	}
	now := a.now()

	categories, err := a.store.Categories()
	if err != nil {
		a.logger.Warn("could not list categories", zap.Error(err))
	}

	reply, qerr := a.client.Query(ctx, prompt.Categorize(prompt.CategorizeRequest{
		Note:       text,
		Date:       now,
		Categories: categories,
	}))
	if qerr != nil {
		rel := "unsorted/note-" + now.Format("2006-01-02-150405") + ".md"
		a.logger.Warn("categorization failed, saving raw note",
			zap.String("path", rel), zap.Error(qerr))
		abs, err := a.store.Write(rel, text)
		if err != nil {
			return AddResult{QueryErr: qerr}, fmt.Errorf("save note: %w", errors.Join(err, qerr))
		}
		return AddResult{Path: abs, RelPath: a.store.Rel(abs), Content: text, QueryErr: qerr}, nil
	}

	placement := parse.ParsePlacement(reply, text, now)
	abs, err := a.store.Write(placement.FilePath, placement.Content)
	if err != nil {
		return AddResult{}, fmt.Errorf("save note: %w", err)
	}
	a.logger.Debug("note categorized", zap.String("path", placement.FilePath))
	return AddResult{
		Path:        abs,
		RelPath:     a.store.Rel(abs),
		Content:     placement.Content,
		Categorized: true,
	}, nil
}

// Search asks the model which notes answer query. typeHint is optional.
func (a *Assistant) Search(ctx context.Context, query, typeHint string) ([]parse.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is empty")
	}
	content, err := a.collect(ctx)
	if err != nil {
		return nil, err
	}

	reply, err := a.client.Query(ctx, prompt.Retrieve(content, query, typeHint))
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	results := parse.SearchResults(reply)
	for _, r := range results {
		if _, ok := content[r.FilePath]; !ok {
			a.logger.Debug("search result names an unknown note", zap.String("path", r.FilePath))
		}
	}
	return results, nil
}

func (a *Assistant) collect(ctx context.Context) (notes.Content, error) {
	content, err := a.store.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect notes: %w", err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoNotes, a.store.Root())
	}
	return content, nil
}
