package assistant

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jeanpaul/notewise/internal/llm"
	"github.com/jeanpaul/notewise/internal/notes"
	"github.com/jeanpaul/notewise/internal/parse"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubClient answers every prompt with a fixed reply or error.
type stubClient struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubClient) Kind() llm.Kind                                { return llm.KindLocal }
func (s *stubClient) Backend() llm.Backend                          { return llm.Backend{Kind: llm.KindLocal, Model: "stub"} }
func (s *stubClient) IsAvailable(context.Context) bool              { return s.err == nil }
func (s *stubClient) IsModelAvailable(context.Context) bool         { return s.err == nil }
func (s *stubClient) Diagnostics(context.Context) map[string]string { return nil }

func (s *stubClient) Query(_ context.Context, p string) (string, error) {
	s.prompts = append(s.prompts, p)
	return s.reply, s.err
}

var fixedNow = time.Date(2024, 5, 17, 14, 3, 9, 0, time.Local)

func newAssistant(t *testing.T, client llm.Client, files map[string]string) (*Assistant, string) {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	a := New(client, notes.NewStore(root, nil, nil), nil)
	a.now = func() time.Time { return fixedNow }
	return a, root
}

func TestGenerateInsightsEndToEnd(t *testing.T) {
	stub := &stubClient{reply: "1. You often write about Swift.\n2. CLI development is a recurring theme."}
	a, _ := newAssistant(t, stub, map[string]string{
		"a.md": "I love Swift.",
		"b.md": "Swift is great for CLIs.",
	})

	got, err := a.GenerateInsights(context.Background(), "", 5)
	require.NoError(t, err)

	want := []string{"You often write about Swift.", "CLI development is a recurring theme."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("insights mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "FILE: a.md\nCONTENT:\nI love Swift.")
	assert.Contains(t, stub.prompts[0], "FILE: b.md\nCONTENT:\nSwift is great for CLIs.")
	assert.Contains(t, stub.prompts[0], "Return exactly 5 insights")
}

func TestGenerateInsightsDefaultsLimit(t *testing.T) {
	stub := &stubClient{reply: "1. a\n2. b\n3. c\n4. d\n5. e\n6. f"}
	a, _ := newAssistant(t, stub, map[string]string{"a.md": "x"})

	got, err := a.GenerateInsights(context.Background(), "work", 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultInsightLimit)
	assert.Contains(t, stub.prompts[0], "topic: work")
}

func TestGenerateInsightsNoNotes(t *testing.T) {
	stub := &stubClient{reply: "1. a"}
	a, _ := newAssistant(t, stub, nil)

	_, err := a.GenerateInsights(context.Background(), "", 3)
	assert.ErrorIs(t, err, ErrNoNotes)
	assert.Empty(t, stub.prompts, "the model is not queried without notes")
}

func TestGenerateInsightsQueryError(t *testing.T) {
	a, _ := newAssistant(t, &stubClient{err: llm.ErrTimeout}, map[string]string{"a.md": "x"})

	_, err := a.GenerateInsights(context.Background(), "", 3)
	assert.ErrorIs(t, err, llm.ErrTimeout)
}

func TestAddNoteCategorized(t *testing.T) {
	stub := &stubClient{reply: "FILE_PATH: projects/notewise\nCONTENT:\n# Notewise\n\nTags: #go\nDate: 2024-05-17\n\nBuild it."}
	a, root := newAssistant(t, stub, map[string]string{"projects/old.md": "x", "journal/day.md": "y"})

	res, err := a.AddNote(context.Background(), "build notewise")
	require.NoError(t, err)

	assert.True(t, res.Categorized)
	assert.NoError(t, res.QueryErr)
	assert.Equal(t, "projects/notewise.md", res.RelPath)
	assert.Equal(t, filepath.Join(root, "projects", "notewise.md"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "# Notewise\n\nTags: #go\nDate: 2024-05-17\n\nBuild it.", string(data))
	assert.Contains(t, stub.prompts[0], "Existing top-level folders: journal, projects.")
	assert.Contains(t, stub.prompts[0], "build notewise")
}

func TestAddNoteTraversalStaysInRoot(t *testing.T) {
	stub := &stubClient{reply: "FILE_PATH: ../../etc/passwd\nCONTENT:\nsneaky"}
	a, root := newAssistant(t, stub, nil)

	res, err := a.AddNote(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "passwd.md"), res.Path)
}

func TestAddNoteFallsBackOnQueryError(t *testing.T) {
	a, root := newAssistant(t, &stubClient{err: llm.ErrConnectionFailed}, nil)

	res, err := a.AddNote(context.Background(), "remember the milk")
	require.NoError(t, err)

	assert.False(t, res.Categorized)
	assert.ErrorIs(t, res.QueryErr, llm.ErrConnectionFailed)
	assert.Equal(t, "unsorted/note-2024-05-17-140309.md", res.RelPath)

	data, err := os.ReadFile(filepath.Join(root, "unsorted", "note-2024-05-17-140309.md"))
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", string(data))
}

func TestAddNoteUnparseableReply(t *testing.T) {
	a, _ := newAssistant(t, &stubClient{reply: "I don't know."}, nil)

	res, err := a.AddNote(context.Background(), "raw text")
	require.NoError(t, err)

	assert.True(t, res.Categorized)
	assert.Equal(t, "unsorted/note-2024-05-17.md", res.RelPath)
	assert.Equal(t, "# Note from 2024-05-17 14:03:09\n\nraw text", res.Content)
}

func TestAddNoteRejectsEmpty(t *testing.T) {
	stub := &stubClient{}
	a, _ := newAssistant(t, stub, nil)

	_, err := a.AddNote(context.Background(), "  \n ")
	assert.ErrorIs(t, err, ErrEmptyNote)
	assert.Empty(t, stub.prompts)
}

func TestSearch(t *testing.T) {
	stub := &stubClient{reply: "TITLE: Swift love\nEXCERPT: I love Swift.\nPATH: a.md\n\nTITLE: incomplete"}
	a, _ := newAssistant(t, stub, map[string]string{"a.md": "I love Swift.", "b.md": "Go is fine."})

	got, err := a.Search(context.Background(), "swift", "journal")
	require.NoError(t, err)

	want := []parse.SearchResult{{Title: "Swift love", Excerpt: "I love Swift.", FilePath: "a.md"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, stub.prompts[0], "swift")
	assert.Contains(t, stub.prompts[0], "journal")
}

func TestSearchErrors(t *testing.T) {
	a, _ := newAssistant(t, &stubClient{err: llm.ErrModelNotAvailable}, map[string]string{"a.md": "x"})

	_, err := a.Search(context.Background(), "x", "")
	assert.ErrorIs(t, err, llm.ErrModelNotAvailable)

	_, err = a.Search(context.Background(), " ", "")
	assert.Error(t, err)

	empty, _ := newAssistant(t, &stubClient{}, nil)
	_, err = empty.Search(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrNoNotes)
}
