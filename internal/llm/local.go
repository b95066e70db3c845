package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// LocalClient talks to a locally hosted model server (Ollama-style API).
type LocalClient struct {
	backend Backend
	http    transport
}

// NewLocal builds a client for b; missing fields take the local defaults.
func NewLocal(b Backend, logger *zap.Logger) *LocalClient {
	b.Kind = KindLocal
	b = b.withDefaults()
	return &LocalClient{backend: b, http: newTransport(logger, nil)}
}

func (c *LocalClient) Kind() Kind       { return KindLocal }
func (c *LocalClient) Backend() Backend { return c.backend }

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response *string         `json:"response"`
	Error    json.RawMessage `json:"error"`
}

func (c *LocalClient) IsAvailable(ctx context.Context) bool {
	return c.http.probe(ctx, c.backend.BaseURL+"/tags", c.backend.ProbeTimeout)
}

func (c *LocalClient) IsModelAvailable(ctx context.Context) bool {
	if !c.IsAvailable(ctx) {
		return false
	}
	models, err := c.listModels(ctx)
	if err != nil {
		return false
	}
	want := canonicalModelName(c.backend.Model)
	for _, m := range models {
		if canonicalModelName(m) == want {
			return true
		}
	}
	return false
}

// ListAvailableModels returns the installed model names in server order, or
// an empty slice when the server is down or answers garbage.
func (c *LocalClient) ListAvailableModels(ctx context.Context) []string {
	if !c.IsAvailable(ctx) {
		return []string{}
	}
	models, err := c.listModels(ctx)
	if err != nil {
		return []string{}
	}
	return models
}

func (c *LocalClient) listModels(ctx context.Context) ([]string, error) {
	var result tagsResponse
	if err := c.http.getJSON(ctx, c.backend.BaseURL+"/tags", c.backend.ProbeTimeout, &result); err != nil {
		return nil, err
	}
	models := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

func (c *LocalClient) Query(ctx context.Context, prompt string) (string, error) {
	if !c.IsAvailable(ctx) {
		return "", fmt.Errorf("%w: %s", ErrConnectionFailed, c.backend.BaseURL)
	}
	if !c.IsModelAvailable(ctx) {
		return "", fmt.Errorf("%w: %s", ErrModelNotAvailable, c.backend.Model)
	}

	body, err := c.http.post(ctx, c.backend.BaseURL+"/generate", c.backend.Timeout, c.backend.Model, generateRequest{
		Model:  c.backend.Model,
		Prompt: prompt,
		System: c.backend.SystemPrompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrResponseParsing, err)
	}
	if msg := errorFieldMessage(result.Error); msg != "" {
		return "", &QueryError{Detail: msg}
	}
	if result.Response == nil {
		return "", fmt.Errorf("%w: missing \"response\" field", ErrResponseParsing)
	}
	return *result.Response, nil
}

func (c *LocalClient) Diagnostics(ctx context.Context) map[string]string {
	return map[string]string{
		"backend":          string(KindLocal),
		"baseURL":          c.backend.BaseURL,
		"modelName":        c.backend.Model,
		"timeout":          c.backend.Timeout.String(),
		"serviceAvailable": yesNo(c.IsAvailable(ctx)),
		"modelAvailable":   yesNo(c.IsModelAvailable(ctx)),
	}
}

// canonicalModelName treats an untagged name as its ":latest" tag, which is
// how the local server reports it.
func canonicalModelName(name string) string {
	if name == "" || strings.Contains(name, ":") {
		return name
	}
	return name + ":latest"
}
