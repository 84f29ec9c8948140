package view

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

const maxResponseSizeBytes = 4 << 20

// Backend is what the views call. Both APIClient and the in-process
// dispatcher satisfy it.
type Backend interface {
	Analyze(ctx context.Context, req contractx.AnalyzeRequest) (contractx.AnalyzeResult, error)
	Recommend(ctx context.Context, req contractx.RecommendRequest) (contractx.RecommendResult, error)
	Summarize(ctx context.Context, req contractx.SummarizeRequest) (contractx.SummaryResult, error)
	Chat(ctx context.Context, req contractx.ChatRequest) (contractx.ChatResult, error)
}

type ClientConfig struct {
	BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:3030"`
	Timeout time.Duration `envconfig:"API_TIMEOUT" default:"120s"`
}

// APIError is a non-2xx answer. Message is the server's {"error"} text and
// may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api responded with status %d", e.Status)
	}
	return fmt.Sprintf("api responded with status %d: %s", e.Status, e.Message)
}

type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Backend = (*APIClient)(nil)

func NewAPIClient(cfg ClientConfig) (*APIClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	return &APIClient{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *APIClient) Analyze(ctx context.Context, req contractx.AnalyzeRequest) (contractx.AnalyzeResult, error) {
	var out contractx.AnalyzeResult
	err := c.post(ctx, "/api/analyze", req, &out)
	return out, err
}

func (c *APIClient) Recommend(ctx context.Context, req contractx.RecommendRequest) (contractx.RecommendResult, error) {
	var out contractx.RecommendResult
	err := c.post(ctx, "/api/recommend", req, &out)
	return out, err
}

func (c *APIClient) Summarize(ctx context.Context, req contractx.SummarizeRequest) (contractx.SummaryResult, error) {
	var out contractx.SummaryResult
	err := c.post(ctx, "/api/summarize", req, &out)
	return out, err
}

func (c *APIClient) Chat(ctx context.Context, req contractx.ChatRequest) (contractx.ChatResult, error) {
	var out contractx.ChatResult
	err := c.post(ctx, "/api/chat", req, &out)
	return out, err
}

func (c *APIClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute %s request: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var e contractx.ErrorResponse
		_ = json.Unmarshal(raw, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
