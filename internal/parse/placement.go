package parse

import (
	"path"
	"strings"
	"time"
)

const (
	filePathMarker = "FILE_PATH:"
	contentMarker  = "CONTENT:"
)

// Placement is where a categorized note goes and what it should contain.
type Placement struct {
	// FilePath is relative to the notes root, slash-separated and ends in .md.
	FilePath string
	Content  string
}

// ParsePlacement reads a categorization reply. A missing path defaults to a
// dated file under unsorted/; missing content falls back to original under a
// timestamped heading.
func ParsePlacement(text, original string, now time.Time) Placement {
	var target string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, filePathMarker); ok {
			target = strings.Trim(strings.TrimSpace(rest), "\"'`")
			break
		}
	}

	var content string
	if i := strings.Index(text, contentMarker); i >= 0 {
		content = strings.TrimSpace(text[i+len(contentMarker):])
	}
	if content == "" {
		content = FallbackContent(original, now)
	}

	target = SanitizePath(target)
	if target == "" {
		target = "unsorted/note-" + now.Format("2006-01-02") + ".md"
	}
	return Placement{FilePath: target, Content: content}
}

// FallbackContent wraps a note that the model did not format.
func FallbackContent(original string, now time.Time) string {
	return "# Note from " + now.Format("2006-01-02 15:04:05") + "\n\n" + original
}

// SanitizePath makes a model-proposed path safe to join onto the notes root:
// every ".." is removed, leading slashes and leading dots of each element are
// dropped, and the result is cleaned and given a .md suffix. It returns ""
// when nothing usable is left, including when the file name would be empty.
func SanitizePath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	p = strings.ReplaceAll(p, "..", "")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	if p == "." || p == "/" {
		return ""
	}

	ext := ".md"
	if strings.HasSuffix(strings.ToLower(p), ".md") {
		ext = p[len(p)-len(ext):]
		p = p[:len(p)-len(ext)]
	}

	// Dot-prefixed elements are hidden from note scans.
	elems := strings.Split(p, "/")
	kept := elems[:0]
	for i, e := range elems {
		e = strings.TrimLeft(e, ".")
		if e == "" {
			if i == len(elems)-1 {
				return ""
			}
			continue
		}
		kept = append(kept, e)
	}
	return strings.Join(kept, "/") + ext
}
