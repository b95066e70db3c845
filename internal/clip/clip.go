// Package clip turns a web page into a Markdown note.
package clip

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-shiori/go-readability"
)

const (
	fetchTimeout = 30 * time.Second
	maxPageBytes = 5 << 20
	userAgent    = "Mozilla/5.0 (compatible; notewise; +https://github.com/jeanpaul/notewise)"
)

// Page is the readable part of a fetched web page.
type Page struct {
	URL      string
	Title    string
	Byline   string
	Markdown string
}

// Note renders the page as note text with a source line.
func (p Page) Note() string {
	var sb strings.Builder
	if p.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", p.Title)
	}
	fmt.Fprintf(&sb, "Source: %s\n", p.URL)
	if p.Byline != "" {
		fmt.Fprintf(&sb, "Author: %s\n", p.Byline)
	}
	sb.WriteString("\n")
	sb.WriteString(strings.TrimSpace(p.Markdown))
	sb.WriteString("\n")
	return sb.String()
}

// Fetch downloads rawURL, extracts the main article and converts it to
// Markdown. Only http and https URLs are accepted.
func Fetch(ctx context.Context, rawURL string) (Page, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Page{}, fmt.Errorf("clip: not an http(s) URL: %q", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("clip: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("clip: fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Page{}, fmt.Errorf("clip: HTTP %d fetching %s", resp.StatusCode, u)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxPageBytes), u)
	if err != nil {
		return Page{}, fmt.Errorf("clip: extract article: %w", err)
	}

	page := Page{URL: u.String(), Title: strings.TrimSpace(article.Title), Byline: strings.TrimSpace(article.Byline)}
	converter := md.NewConverter(u.Scheme+"://"+u.Host, true, nil)
	markdown, err := converter.ConvertString(article.Content)
	if err != nil {
		page.Markdown = article.TextContent
	} else {
		page.Markdown = markdown
	}
	if strings.TrimSpace(page.Markdown) == "" {
		return Page{}, fmt.Errorf("clip: no readable content at %s", u)
	}
	return page, nil
}
