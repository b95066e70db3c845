package parse

import "strings"

// SearchResult is one note returned by a retrieval reply.
type SearchResult struct {
	Title    string
	Excerpt  string
	FilePath string
}

func (r SearchResult) complete() bool {
	return r.Title != "" && r.Excerpt != "" && r.FilePath != ""
}

// SearchResults reads TITLE/EXCERPT/PATH sections separated by blank lines.
// Lines after EXCERPT: that carry no marker extend the excerpt. Sections
// missing any of the three fields are dropped.
func SearchResults(text string) []SearchResult {
	var (
		results   []SearchResult
		cur       SearchResult
		inExcerpt bool
	)
	flush := func() {
		if cur.complete() {
			results = append(results, cur)
		}
		cur = SearchResult{}
		inExcerpt = false
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "TITLE:"):
			cur.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
			inExcerpt = false
		case strings.HasPrefix(line, "EXCERPT:"):
			cur.Excerpt = strings.TrimSpace(strings.TrimPrefix(line, "EXCERPT:"))
			inExcerpt = true
		case strings.HasPrefix(line, "PATH:"):
			cur.FilePath = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "PATH:")), "\"'`")
			inExcerpt = false
		case inExcerpt:
			if cur.Excerpt == "" {
				cur.Excerpt = line
			} else {
				cur.Excerpt += "\n" + line
			}
		}
	}
	flush()
	return results
}
