// Package health runs the doctor checks against the selected backend.
package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeanpaul/notewise/internal/llm"
)

type Status struct {
	Kind           llm.Kind
	BaseURL        string
	Model          string
	Reachable      bool
	ModelAvailable bool
	// Models is the installed model list; only the local backend reports it.
	Models  []string
	Error   string
	Hint    string
	Latency time.Duration
}

// OK reports whether the backend can serve queries with the configured model.
func (s Status) OK() bool { return s.Reachable && s.ModelAvailable }

// Check probes the selected backend and reports what it finds. It never
// returns an error; problems are described in Status.Error and Status.Hint.
func Check(ctx context.Context, sel llm.Selection) Status {
	client := sel.Client()
	b := client.Backend()
	s := Status{Kind: sel.Kind, BaseURL: b.BaseURL, Model: b.Model}

	start := time.Now()
	s.Reachable = client.IsAvailable(ctx)
	s.Latency = time.Since(start)

	if !s.Reachable {
		s.Error = fmt.Sprintf("cannot reach %s", b.BaseURL)
		s.Hint = unreachableHint(sel.Kind)
		return s
	}

	switch sel.Kind {
	case llm.KindLocal:
		s.Models = sel.Local.ListAvailableModels(ctx)
		s.ModelAvailable = sel.Local.IsModelAvailable(ctx)
	case llm.KindRemote:
		s.ModelAvailable = sel.Remote.IsModelAvailable(ctx)
	}

	if !s.ModelAvailable {
		s.Error = fmt.Sprintf("model %q not found", b.Model)
		if len(s.Models) > 0 {
			s.Error += ", available: " + strings.Join(s.Models, ", ")
		}
		s.Hint = llm.Hint(llm.ErrModelNotAvailable)
		if sel.Kind == llm.KindRemote {
			s.Hint = "check the model name and that your API key has access to it"
		}
	}
	return s
}

func unreachableHint(kind llm.Kind) string {
	if kind == llm.KindRemote {
		return "check the network, base_url and API key"
	}
	return "start the local model server (ollama serve) or fix base_url"
}
