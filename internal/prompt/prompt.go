// Package prompt renders the task prompts sent to the model.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeanpaul/notewise/internal/notes"
)

// MaxNoteRunes bounds how much of each note is quoted in the insight and
// retrieval prompts.
const MaxNoteRunes = 1000

// MaxSearchResults is the number of results the retrieval prompt asks for.
const MaxSearchResults = 5

// Insights asks for count numbered insights across all notes, optionally
// focused on topic.
func Insights(content notes.Content, topic string, count int) string {
	if count <= 0 {
		count = 5
	}
	var sb strings.Builder
	sb.WriteString("You are an assistant that analyzes a personal knowledge base and finds patterns, recurring themes and connections between notes.\n")
	if topic = strings.TrimSpace(topic); topic != "" {
		fmt.Fprintf(&sb, "Focus your analysis on the topic: %s.\n", topic)
	}
	fmt.Fprintf(&sb, "Return exactly %d insights as a numbered list (1., 2., ...), one insight per item, with no introduction or closing remarks.\n\n", count)
	sb.WriteString("NOTES:\n\n")
	writeNoteBlocks(&sb, content)
	sb.WriteString("INSIGHTS:\n")
	return sb.String()
}

// CategorizeRequest holds the inputs of the categorization prompt.
type CategorizeRequest struct {
	Note string
	Date time.Time
	// Categories are existing top-level folders offered as placement hints.
	Categories []string
}

// Categorize asks the model where a new note belongs and for a formatted
// version of it. The note is quoted in full.
func Categorize(req CategorizeRequest) string {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	var sb strings.Builder
	sb.WriteString("You are an assistant that files new notes into a personal knowledge base of Markdown files.\n")
	sb.WriteString("Decide the best relative file path for the note below and rewrite it as a well formatted Markdown document.\n\n")
	if len(req.Categories) > 0 {
		fmt.Fprintf(&sb, "Existing top-level folders: %s. Prefer one of them when it fits.\n\n", strings.Join(req.Categories, ", "))
	}
	sb.WriteString("NOTE:\n")
	sb.WriteString(req.Note)
	sb.WriteString("\n\n")
	sb.WriteString("Respond in exactly this format:\n")
	sb.WriteString("FILE_PATH: <relative/path/to/note.md>\n")
	sb.WriteString("CONTENT:\n")
	sb.WriteString("<the complete Markdown document>\n\n")
	sb.WriteString("The Markdown document must contain:\n")
	sb.WriteString("- a level-one heading with a concise title\n")
	sb.WriteString("- a line `Tags: ` followed by a few comma-separated #tags\n")
	fmt.Fprintf(&sb, "- a line `Date: %s`\n", date.Format("2006-01-02"))
	sb.WriteString("- the body of the note, keeping all of its information\n")
	return sb.String()
}

// Retrieve asks for the notes most relevant to query, as TITLE/EXCERPT/PATH
// triplets. typeHint narrows the kind of note wanted, if set.
func Retrieve(content notes.Content, query, typeHint string) string {
	var sb strings.Builder
	sb.WriteString("You are an assistant that searches a personal knowledge base.\n")
	fmt.Fprintf(&sb, "Find the notes that best answer the query: %s\n", strings.TrimSpace(query))
	if typeHint = strings.TrimSpace(typeHint); typeHint != "" {
		fmt.Fprintf(&sb, "Only consider notes of this type: %s\n", typeHint)
	}
	sb.WriteString("\nNOTES:\n\n")
	writeNoteBlocks(&sb, content)
	fmt.Fprintf(&sb, "Return at most %d results, most relevant first. For each result write exactly these three lines, and separate results with a blank line:\n", MaxSearchResults)
	sb.WriteString("TITLE: <title of the note>\n")
	sb.WriteString("EXCERPT: <the passage that answers the query>\n")
	sb.WriteString("PATH: <the FILE path exactly as given above>\n")
	sb.WriteString("\nIf no note is relevant, return nothing.\n")
	return sb.String()
}

func writeNoteBlocks(sb *strings.Builder, content notes.Content) {
	for _, p := range content.Paths() {
		fmt.Fprintf(sb, "FILE: %s\nCONTENT:\n%s\n\n", p, Truncate(content[p], MaxNoteRunes))
	}
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n < 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
