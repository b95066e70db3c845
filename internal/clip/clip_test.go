package clip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html><head><title>Field Notes on Go</title></head>
<body>
<nav><a href="/">Home</a> | <a href="/about">About</a></nav>
<article>
<h1>Field Notes on Go</h1>
<p class="byline">By Ada Writer</p>
<p>Go makes small command line tools pleasant to write. The standard library covers
most of what a note-taking tool needs, and the ecosystem fills in the rest.</p>
<p>Interfaces are satisfied implicitly, which keeps packages decoupled and makes
test doubles trivial to write. Errors are values, so every failure path is visible
in the code that handles it.</p>
<p>Concurrency is built in, but a tool that sends one request at a time does not
need any of it. Keeping things sequential keeps them simple.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "notewise")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	page, err := Fetch(context.Background(), srv.URL+"/posts/go")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/posts/go", page.URL)
	assert.Contains(t, page.Markdown, "Interfaces are satisfied implicitly")
	assert.NotContains(t, page.Markdown, "Copyright")

	note := page.Note()
	assert.Contains(t, note, "Source: "+srv.URL+"/posts/go")
	assert.Contains(t, note, "Go makes small command line tools")
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchRejectsNonHTTP(t *testing.T) {
	for _, u := range []string{"", "file:///etc/passwd", "ftp://example.com/x", "not a url", "https://"} {
		_, err := Fetch(context.Background(), u)
		assert.Error(t, err, u)
	}
}

func TestPageNote(t *testing.T) {
	p := Page{URL: "https://example.com/a", Title: "A", Byline: "B", Markdown: "\nbody\n\n"}
	assert.Equal(t, "# A\n\nSource: https://example.com/a\nAuthor: B\n\nbody\n", p.Note())

	bare := Page{URL: "https://example.com/b", Markdown: "text"}
	assert.Equal(t, "Source: https://example.com/b\n\ntext\n", bare.Note())
}
