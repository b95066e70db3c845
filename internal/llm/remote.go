package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"go.uber.org/zap"
)

const (
	remoteTemperature = 0.7
	remoteMaxTokens   = 2048
)

// RemoteClient talks to a hosted OpenAI-compatible chat completions API.
type RemoteClient struct {
	backend Backend
	http    transport
}

// NewRemote builds a client for b. An empty API key is a configuration error.
func NewRemote(b Backend, logger *zap.Logger) (*RemoteClient, error) {
	if b.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	b.Kind = KindRemote
	b = b.withDefaults()
	return &RemoteClient{
		backend: b,
		http:    newTransport(logger, map[string]string{"Authorization": "Bearer " + b.APIKey}),
	}, nil
}

func (c *RemoteClient) Kind() Kind       { return KindRemote }
func (c *RemoteClient) Backend() Backend { return c.backend }

type chatRequest struct {
	Model       string                                   `json:"model"`
	Messages    []openai.ChatCompletionMessageParamUnion `json:"messages"`
	Temperature float64                                  `json:"temperature"`
	MaxTokens   int                                      `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error json.RawMessage `json:"error"`
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (c *RemoteClient) IsAvailable(ctx context.Context) bool {
	return c.http.probe(ctx, c.backend.BaseURL+"/models", c.backend.ProbeTimeout)
}

func (c *RemoteClient) IsModelAvailable(ctx context.Context) bool {
	var result modelsResponse
	if err := c.http.getJSON(ctx, c.backend.BaseURL+"/models", c.backend.ProbeTimeout, &result); err != nil {
		return false
	}
	for _, m := range result.Data {
		if m.ID == c.backend.Model {
			return true
		}
	}
	return false
}

func (c *RemoteClient) Query(ctx context.Context, prompt string) (string, error) {
	if !c.IsAvailable(ctx) {
		return "", fmt.Errorf("%w: %s", ErrConnectionFailed, c.backend.BaseURL)
	}

	body, err := c.http.post(ctx, c.backend.BaseURL+"/chat/completions", c.backend.Timeout, c.backend.Model, chatRequest{
		Model: c.backend.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.backend.SystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: remoteTemperature,
		MaxTokens:   remoteMaxTokens,
	})
	if err != nil {
		return "", err
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrResponseParsing, err)
	}
	if msg := errorFieldMessage(result.Error); msg != "" {
		return "", &QueryError{Detail: msg}
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("%w: missing choices[0].message.content", ErrResponseParsing)
	}
	return *result.Choices[0].Message.Content, nil
}

func (c *RemoteClient) Diagnostics(ctx context.Context) map[string]string {
	return map[string]string{
		"backend":          string(KindRemote),
		"baseURL":          c.backend.BaseURL,
		"modelName":        c.backend.Model,
		"apiKey":           MaskKey(c.backend.APIKey),
		"timeout":          c.backend.Timeout.String(),
		"serviceAvailable": yesNo(c.IsAvailable(ctx)),
		"modelAvailable":   yesNo(c.IsModelAvailable(ctx)),
	}
}

// MaskKey keeps only the ends of key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "..." + key[len(key)-4:]
}
