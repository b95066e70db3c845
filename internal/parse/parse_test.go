package parse

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestInsights(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name: "numbered",
			text: "1. Alpha\n2. Beta\n3. Gamma",
			want: []string{"Alpha", "Beta", "Gamma"},
		},
		{
			name: "continuation folded",
			text: "1. Alpha\nstill alpha",
			want: []string{"Alpha still alpha"},
		},
		{
			name: "preamble dropped",
			text: "Here are your insights:\n\n1) First\n   wraps here\n2) Second\n\nHope this helps!",
			want: []string{"First wraps here", "Second Hope this helps!"},
		},
		{
			name: "bullets",
			text: "- one\n* two\n  - nested three",
			want: []string{"one", "two", "nested three"},
		},
		{
			name: "bold is not a bullet",
			text: "1. Title\n**emphasis** continues",
			want: []string{"Title **emphasis** continues"},
		},
		{
			name: "decimal continues",
			text: "1. You wrote more this year\n3.5 times more notes\n2. Beta",
			want: []string{"You wrote more this year 3.5 times more notes", "Beta"},
		},
		{
			name: "bare marker takes next line",
			text: "1.\nAlpha\n2. Beta",
			want: []string{"Alpha", "Beta"},
		},
		{
			name:  "limited",
			text:  "1. a\n2. b\n3. c\n4. d",
			limit: 2,
			want:  []string{"a", "b"},
		},
		{
			name: "nothing usable",
			text: "I could not find any patterns.",
			want: []string{},
		},
		{
			name: "empty",
			text: "",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Insights(tt.text, tt.limit)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Insights mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInsightsRoundTripCount(t *testing.T) {
	reply := "1. You often write about Swift.\n2. CLI development is a recurring theme."
	got := Insights(reply, 5)
	assert.Equal(t, []string{"You often write about Swift.", "CLI development is a recurring theme."}, got)
}

var now = time.Date(2024, 5, 17, 14, 3, 9, 0, time.UTC)

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		original string
		want     Placement
	}{
		{
			name: "well formed",
			text: "FILE_PATH: projects/notewise.md\nCONTENT:\n# Notewise\n\nTags: #go\n",
			want: Placement{FilePath: "projects/notewise.md", Content: "# Notewise\n\nTags: #go"},
		},
		{
			name: "md suffix appended",
			text: "FILE_PATH: projects/x\nCONTENT:\nbody",
			want: Placement{FilePath: "projects/x.md", Content: "body"},
		},
		{
			name: "quoted path",
			text: "Sure!\nFILE_PATH: `ideas/app idea.md`\nCONTENT: # App",
			want: Placement{FilePath: "ideas/app idea.md", Content: "# App"},
		},
		{
			name: "traversal neutralized",
			text: "FILE_PATH: ../../etc/passwd\nCONTENT:\nx",
			want: Placement{FilePath: "etc/passwd.md", Content: "x"},
		},
		{
			name: "dotfile path",
			text: "FILE_PATH: .md\nCONTENT:\n# Hidden",
			want: Placement{FilePath: "unsorted/note-2024-05-17.md", Content: "# Hidden"},
		},
		{
			name:     "no path",
			text:     "CONTENT:\n# Groceries",
			original: "milk",
			want:     Placement{FilePath: "unsorted/note-2024-05-17.md", Content: "# Groceries"},
		},
		{
			name:     "no content",
			text:     "FILE_PATH: shopping/list.md",
			original: "milk, eggs",
			want:     Placement{FilePath: "shopping/list.md", Content: "# Note from 2024-05-17 14:03:09\n\nmilk, eggs"},
		},
		{
			name:     "empty content",
			text:     "FILE_PATH: a.md\nCONTENT:\n   \n",
			original: "raw",
			want:     Placement{FilePath: "a.md", Content: "# Note from 2024-05-17 14:03:09\n\nraw"},
		},
		{
			name:     "garbage",
			text:     "I am not sure what to do with this.",
			original: "raw",
			want:     Placement{FilePath: "unsorted/note-2024-05-17.md", Content: "# Note from 2024-05-17 14:03:09\n\nraw"},
		},
		{
			name: "first path wins",
			text: "FILE_PATH: first.md\nFILE_PATH: second.md\nCONTENT:\nx",
			want: Placement{FilePath: "first.md", Content: "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePlacement(tt.text, tt.original, now)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParsePlacement mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSanitizePath(t *testing.T) {
	tests := map[string]string{
		"projects/x":            "projects/x.md",
		"projects/x.md":         "projects/x.md",
		"Notes/README.MD":       "Notes/README.MD",
		"../../etc/passwd":      "etc/passwd.md",
		"a/../../b.md":          "a/b.md",
		"/abs/path.md":          "abs/path.md",
		`..\..\windows\x`:       "windows/x.md",
		"./here//there/":        "here/there.md",
		"....//secret":          "secret.md",
		"..":                    "",
		"/":                     "",
		"   ":                   "",
		"report.txt":            "report.txt.md",
		"journal/2024/05/17.md": "journal/2024/05/17.md",
		".md":                   "",
		"notes/.MD":             "",
		".obsidian/note":        "obsidian/note.md",
		"journal/.draft.md":     "journal/draft.md",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizePath(in), "SanitizePath(%q)", in)
	}
}

func TestSearchResults(t *testing.T) {
	text := `Here is what I found:

TITLE: Swift CLIs
EXCERPT: Swift is great for CLIs.
It also builds fast.
PATH: b.md

TITLE: Orphan title only

TITLE: Love letter
EXCERPT: I love Swift.
PATH: "a.md"

EXCERPT: no title here
PATH: c.md
`
	want := []SearchResult{
		{Title: "Swift CLIs", Excerpt: "Swift is great for CLIs.\nIt also builds fast.", FilePath: "b.md"},
		{Title: "Love letter", Excerpt: "I love Swift.", FilePath: "a.md"},
	}
	if diff := cmp.Diff(want, SearchResults(text)); diff != "" {
		t.Errorf("SearchResults mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchResultsEmpty(t *testing.T) {
	assert.Empty(t, SearchResults(""))
	assert.Empty(t, SearchResults("No relevant notes."))
	assert.Empty(t, SearchResults("TITLE: x\nPATH: y.md"))
}
