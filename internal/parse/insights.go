// Package parse turns free-form model replies back into structured values.
// Every function here is pure: a reply with no usable structure yields an
// empty or defaulted result, never an error.
package parse

import (
	"regexp"
	"strings"
)

// listMarker matches "1." / "12)" or "-" / "*" followed by whitespace or,
// for numerals, the end of the line. "3.5 times" is not a marker.
var listMarker = regexp.MustCompile(`^(?:\d+[.)](?:\s+|$)|[-*]\s+)`)

// Insights extracts list items from text. A numbered or bulleted line starts
// a new item; other non-empty lines continue the current one. Lines before
// the first item are ignored. limit <= 0 means no cap.
func Insights(text string, limit int) []string {
	var items []string
	open := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if loc := listMarker.FindStringIndex(line); loc != nil {
			items = append(items, strings.TrimSpace(line[loc[1]:]))
			open = true
			continue
		}
		if !open {
			continue
		}
		last := &items[len(items)-1]
		if *last == "" {
			*last = line
		} else {
			*last += " " + line
		}
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		out = append(out, it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
