package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// transport is the HTTP plumbing shared by both clients. It never retries.
type transport struct {
	client  *http.Client
	logger  *zap.Logger
	headers map[string]string
}

func newTransport(logger *zap.Logger, headers map[string]string) transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return transport{client: &http.Client{}, logger: logger, headers: headers}
}

func (t transport) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// probe issues a GET with its own short deadline and reports a 2xx answer.
func (t transport) probe(ctx context.Context, url string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := t.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Debug("probe failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// getJSON decodes a 2xx GET response into out, bounded by timeout.
func (t transport) getJSON(ctx context.Context, url string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := t.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %s", url, parseBackendError(resp.StatusCode, body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// post sends payload and returns the raw 2xx body. Transport failures are
// classified; a non-2xx status becomes a QueryError.
func (t transport) post(ctx context.Context, url string, timeout time.Duration, model string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := t.newRequest(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, &QueryError{Detail: err.Error(), Err: err}
	}

	id := uuid.NewString()
	start := time.Now()
	t.logger.Debug("query sent",
		zap.String("request_id", id),
		zap.String("url", url),
		zap.String("model", model),
		zap.Int("payload_bytes", len(data)))

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Debug("query failed", zap.String("request_id", id), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	t.logger.Debug("query answered",
		zap.String("request_id", id),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &QueryError{Detail: parseBackendError(resp.StatusCode, body)}
	}
	return body, nil
}
