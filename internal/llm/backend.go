package llm

import (
	"context"
	"strings"
	"time"
)

// Kind discriminates the two backend variants.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

const (
	DefaultLocalModel   = "llama3"
	DefaultLocalBaseURL = "http://localhost:11434/api"
	DefaultLocalTimeout = 30 * time.Minute

	DefaultRemoteModel   = "gpt-3.5-turbo"
	DefaultRemoteBaseURL = "https://api.openai.com/v1"
	DefaultRemoteTimeout = 10 * time.Minute

	// DefaultProbeTimeout bounds availability and model-listing checks.
	DefaultProbeTimeout = 5 * time.Second

	DefaultSystemPrompt = "You are a helpful assistant that organizes and analyzes a personal knowledge base of notes. Answer only from the notes you are given."
)

// Backend holds everything needed to talk to one LLM endpoint.
type Backend struct {
	Kind         Kind
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
	ProbeTimeout time.Duration
}

func (b Backend) withDefaults() Backend {
	b.BaseURL = strings.TrimRight(b.BaseURL, "/")
	switch b.Kind {
	case KindRemote:
		if b.BaseURL == "" {
			b.BaseURL = DefaultRemoteBaseURL
		}
		if b.Model == "" {
			b.Model = DefaultRemoteModel
		}
		if b.Timeout <= 0 {
			b.Timeout = DefaultRemoteTimeout
		}
	default:
		b.Kind = KindLocal
		if b.BaseURL == "" {
			b.BaseURL = DefaultLocalBaseURL
		}
		if b.Model == "" {
			b.Model = DefaultLocalModel
		}
		if b.Timeout <= 0 {
			b.Timeout = DefaultLocalTimeout
		}
	}
	if b.ProbeTimeout <= 0 {
		b.ProbeTimeout = DefaultProbeTimeout
	}
	if strings.TrimSpace(b.SystemPrompt) == "" {
		b.SystemPrompt = DefaultSystemPrompt
	}
	return b
}

// Client is implemented by both backend variants.
type Client interface {
	Kind() Kind
	Backend() Backend
	// IsAvailable reports whether the backend answered a short probe with 2xx.
	IsAvailable(ctx context.Context) bool
	// IsModelAvailable reports whether the configured model is listed by the backend.
	IsModelAvailable(ctx context.Context) bool
	// Query sends prompt and blocks until the backend answers or the timeout fires.
	Query(ctx context.Context, prompt string) (string, error)
	Diagnostics(ctx context.Context) map[string]string
}

var (
	_ Client = (*LocalClient)(nil)
	_ Client = (*RemoteClient)(nil)
)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
