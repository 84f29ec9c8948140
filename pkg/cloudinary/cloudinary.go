package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultBaseURL       = "https://api.cloudinary.com/v1_1"
	maxResponseSizeBytes = 1 << 20
)

var (
	ErrMissingCloudName    = errors.New("cloudinary cloud name is required")
	ErrMissingUploadPreset = errors.New("cloudinary upload preset is required")
)

type Config struct {
	CloudName    string        `split_words:"true"`
	UploadPreset string        `split_words:"true"`
	BaseURL      string        `split_words:"true" default:"https://api.cloudinary.com/v1_1"`
	Timeout      time.Duration `split_words:"true" default:"60s"`
}

// Client performs unsigned uploads; the preset decides folder and access.
type Client struct {
	baseURL      string
	cloudName    string
	uploadPreset string
	httpClient   *http.Client
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewClient(cfg Config) (*Client, error) {
	cloudName := strings.TrimSpace(cfg.CloudName)
	if cloudName == "" {
		return nil, ErrMissingCloudName
	}
	preset := strings.TrimSpace(cfg.UploadPreset)
	if preset == "" {
		return nil, ErrMissingUploadPreset
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid cloudinary base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		cloudName:    cloudName,
		uploadPreset: preset,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Upload sends the file to the auto/upload endpoint and returns its durable URL.
func (c *Client) Upload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copy upload body: %w", err)
	}
	if err := mw.WriteField("upload_preset", c.uploadPreset); err != nil {
		return "", fmt.Errorf("write upload preset: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/auto/upload", c.baseURL, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute upload request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	var parsed uploadResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("cloudinary upload failed: status=%d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("cloudinary upload failed: status=%d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode upload response: %w", decodeErr)
	}

	if parsed.SecureURL != "" {
		return parsed.SecureURL, nil
	}
	if parsed.URL != "" {
		return parsed.URL, nil
	}
	return "", errors.New("cloudinary response has no url")
}
