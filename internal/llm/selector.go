package llm

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeanpaul/notewise/internal/config"
)

// APIKeyEnv is consulted when neither the request nor the config carries a key.
const APIKeyEnv = "OPENAI_API_KEY"

// localOnlyModels are identifiers that only make sense on a local server.
var localOnlyModels = []string{"llama3", "llama3:8b", "llama3:70b", "mistral", "mixtral", "codellama"}

// IsLocalOnlyModel reports whether name is a known local-only identifier.
func IsLocalOnlyModel(name string) bool {
	for _, m := range localOnlyModels {
		if strings.EqualFold(name, m) {
			return true
		}
	}
	return false
}

// Request carries explicit caller overrides, typically from CLI flags.
type Request struct {
	Remote bool
	APIKey string
	Model  string
	// SystemPrompt replaces the configured system prompt when set.
	SystemPrompt string
}

// Selection is the selector's result: exactly one of Local or Remote is set,
// matching Kind.
type Selection struct {
	Kind   Kind
	Local  *LocalClient
	Remote *RemoteClient

	// CorrectedFrom holds the local-only model name that was replaced by the
	// remote default, if any.
	CorrectedFrom string
}

// Client returns the selected backend as the common interface.
func (s Selection) Client() Client {
	switch s.Kind {
	case KindRemote:
		return s.Remote
	default:
		return s.Local
	}
}

// Selector resolves which backend to use from explicit requests, the
// persisted configuration and built-in defaults.
type Selector struct {
	cfg    config.Config
	getenv func(string) string
	logger *zap.Logger
}

func NewSelector(cfg *config.Config, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := config.Config{}
	if cfg != nil {
		c = *cfg
	}
	return &Selector{cfg: c, getenv: os.Getenv, logger: logger}
}

// Select builds the client for req.
func (s *Selector) Select(req Request) (Selection, error) {
	service := strings.ToLower(strings.TrimSpace(s.cfg.Service))
	configuredRemote := service == string(KindRemote)
	system := firstNonEmpty(req.SystemPrompt, s.cfg.SystemPrompt)

	if req.Remote {
		b := Backend{
			Kind:         KindRemote,
			APIKey:       firstNonEmpty(req.APIKey, s.cfg.APIKey, s.getenv(APIKeyEnv)),
			Model:        firstNonEmpty(req.Model, s.cfg.Model),
			SystemPrompt: system,
		}
		if configuredRemote {
			b.BaseURL = s.cfg.BaseURL
			b.Timeout = seconds(s.cfg.Timeout)
		}
		return s.remote(b)
	}

	switch service {
	case string(KindRemote):
		return s.remote(Backend{
			Kind:         KindRemote,
			BaseURL:      s.cfg.BaseURL,
			APIKey:       firstNonEmpty(req.APIKey, s.cfg.APIKey, s.getenv(APIKeyEnv)),
			Model:        firstNonEmpty(req.Model, s.cfg.Model),
			SystemPrompt: system,
			Timeout:      seconds(s.cfg.Timeout),
		})
	case "", string(KindLocal):
		local := NewLocal(Backend{
			Kind:         KindLocal,
			BaseURL:      s.cfg.BaseURL,
			Model:        firstNonEmpty(req.Model, s.cfg.Model),
			SystemPrompt: system,
			Timeout:      seconds(s.cfg.Timeout),
		}, s.logger)
		return Selection{Kind: KindLocal, Local: local}, nil
	default:
		return Selection{}, fmt.Errorf("config: unknown service %q (must be local or remote)", s.cfg.Service)
	}
}

func (s *Selector) remote(b Backend) (Selection, error) {
	if b.APIKey == "" {
		return Selection{}, ErrMissingAPIKey
	}
	sel := Selection{Kind: KindRemote}
	if IsLocalOnlyModel(b.Model) {
		s.logger.Warn("local-only model requested for remote backend, using default",
			zap.String("requested", b.Model),
			zap.String("model", DefaultRemoteModel))
		sel.CorrectedFrom = b.Model
		b.Model = DefaultRemoteModel
	}
	client, err := NewRemote(b, s.logger)
	if err != nil {
		return Selection{}, err
	}
	sel.Remote = client
	return sel, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
