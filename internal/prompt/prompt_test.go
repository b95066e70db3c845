package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/jeanpaul/notewise/internal/notes"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var sample = notes.Content{
	"b.md": "Swift is great for CLIs.",
	"a.md": "I love Swift.",
}

func TestInsights(t *testing.T) {
	p := Insights(sample, "programming", 3)

	assert.Contains(t, p, "Focus your analysis on the topic: programming.")
	assert.Contains(t, p, "Return exactly 3 insights")
	assert.Contains(t, p, "FILE: a.md\nCONTENT:\nI love Swift.\n")
	assert.True(t, strings.HasSuffix(p, "INSIGHTS:\n"))
	assert.Less(t, strings.Index(p, "FILE: a.md"), strings.Index(p, "FILE: b.md"), "notes are in path order")
}

func TestInsightsWithoutTopic(t *testing.T) {
	p := Insights(sample, "  ", 5)
	assert.NotContains(t, p, "Focus your analysis")
	assert.Contains(t, p, "Return exactly 5 insights")
}

func TestInsightsDeterministic(t *testing.T) {
	assert.Equal(t, Insights(sample, "x", 2), Insights(sample, "x", 2))
}

func TestNoteBlocksAreTruncated(t *testing.T) {
	long := strings.Repeat("é", MaxNoteRunes+50)
	p := Retrieve(notes.Content{"long.md": long}, "accents", "")

	assert.Contains(t, p, "FILE: long.md\nCONTENT:\n"+strings.Repeat("é", MaxNoteRunes)+"\n\n")
	assert.NotContains(t, p, strings.Repeat("é", MaxNoteRunes+1))
}

func TestCategorizeQuotesWholeNote(t *testing.T) {
	note := strings.Repeat("word ", 600)
	p := Categorize(CategorizeRequest{
		Note:       note,
		Date:       time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC),
		Categories: []string{"projects", "journal"},
	})

	assert.Contains(t, p, note)
	assert.Contains(t, p, "FILE_PATH: ")
	assert.Contains(t, p, "CONTENT:\n")
	assert.Contains(t, p, "Date: 2024-03-09")
	assert.Contains(t, p, "Existing top-level folders: projects, journal.")
}

func TestCategorizeWithoutCategories(t *testing.T) {
	p := Categorize(CategorizeRequest{Note: "buy milk"})
	assert.NotContains(t, p, "Existing top-level folders")
}

func TestRetrieve(t *testing.T) {
	p := Retrieve(sample, "  swift tooling ", "project")

	assert.Contains(t, p, "query: swift tooling\n")
	assert.Contains(t, p, "Only consider notes of this type: project")
	assert.Contains(t, p, "at most 5 results")
	for _, marker := range []string{"TITLE:", "EXCERPT:", "PATH:"} {
		assert.Contains(t, p, marker)
	}
	assert.NotContains(t, Retrieve(sample, "q", ""), "Only consider")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 2, "he"},
		{"日本語テキスト", 3, "日本語"},
		{"abc", 0, ""},
		{"", 4, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.n), "Truncate(%q, %d)", tt.in, tt.n)
	}
}
