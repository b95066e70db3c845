// Package model installs and removes models on the local model server.
package model

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jeanpaul/notewise/internal/llm"
)

type Manager struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewManager talks to the local server's API root, e.g.
// http://localhost:11434/api.
func NewManager(baseURL string, logger *zap.Logger) *Manager {
	if baseURL == "" {
		baseURL = llm.DefaultLocalBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger,
	}
}

// Pull downloads a model and reports each progress line the server streams.
func (m *Manager) Pull(ctx context.Context, name string, progress func(PullProgress)) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("model name is required")
	}
	resp, err := m.do(ctx, http.MethodPost, "/pull", map[string]any{"name": name, "stream": true})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("pull", resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var p PullProgress
		if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
			continue
		}
		if p.Error != "" {
			return fmt.Errorf("pull %s: %s", name, p.Error)
		}
		if p.Total > 0 {
			p.Percent = float64(p.Completed) / float64(p.Total) * 100
		}
		if progress != nil {
			progress(p)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("pull %s: %w", name, err)
	}
	m.logger.Debug("model pulled", zap.String("model", name))
	return nil
}

// Remove deletes an installed model.
func (m *Manager) Remove(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("model name is required")
	}
	resp, err := m.do(ctx, http.MethodDelete, "/delete", map[string]string{"name": name})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("delete", resp)
	}
	m.logger.Debug("model removed", zap.String("model", name))
	return nil
}

func (m *Manager) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", llm.ErrConnectionFailed, m.baseURL, err)
	}
	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil && body.Error != "" {
		return fmt.Errorf("%s failed (%d): %s", op, resp.StatusCode, body.Error)
	}
	return fmt.Errorf("%s failed (%d): %s", op, resp.StatusCode, strings.TrimSpace(string(b)))
}
