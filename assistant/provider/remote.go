package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
)

const maxResponseSizeBytes = 2 << 20

var _ contractx.Provider = (*RemoteProvider)(nil)

// RemoteOption customizes RemoteProvider.
type RemoteOption func(*RemoteProvider)

func WithHTTPClient(client *http.Client) RemoteOption {
	return func(p *RemoteProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

func WithToken(token string) RemoteOption {
	return func(p *RemoteProvider) {
		p.token = strings.TrimSpace(token)
	}
}

// RemoteProvider posts {"input": ...} to a service that answers with the same
// JSON document the local script would print.
type RemoteProvider struct {
	name       string
	endpoint   string
	token      string
	httpClient *http.Client
}

type remoteRequest struct {
	Input string `json:"input"`
}

func NewRemoteProvider(name, endpoint string, timeout time.Duration, opts ...RemoteOption) (*RemoteProvider, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("remote provider url is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid remote provider url: %w", err)
	}

	p := &RemoteProvider{
		name:       name,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

func (p *RemoteProvider) Invoke(ctx context.Context, input string) (contractx.Output, error) {
	body, err := json.Marshal(remoteRequest{Input: input})
	if err != nil {
		return contractx.Output{}, fmt.Errorf("marshal provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return contractx.Output{}, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return contractx.Output{}, fmt.Errorf("execute provider=%s request: %w", p.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return contractx.Output{}, fmt.Errorf("read provider=%s response: %w", p.name, err)
	}

	out := contractx.Output{Document: raw}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		out.ExitCode = resp.StatusCode
		out.Diagnostics = remoteDiagnostics(resp.StatusCode, raw)
	}
	return out, nil
}

// remoteDiagnostics keeps only the message of an {"error": ...} body, so raw
// error pages never reach the caller.
func remoteDiagnostics(status int, raw []byte) []byte {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Error) != "" {
		return []byte(body.Error)
	}
	return []byte(fmt.Sprintf("provider status=%d", status))
}
