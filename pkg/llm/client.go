package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jwen23/campusbot/pkg/domain"
)

type Config struct {
	Token       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	TopP        float32
	Timeout     time.Duration
}

type client struct {
	hc  *http.Client
	cfg Config
}

func NewClient(cfg Config) (*client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is empty")
	}
	return &client{
		hc:  &http.Client{Timeout: cfg.Timeout},
		cfg: cfg,
	}, nil
}

// CreateChatCompletion posts the assembled messages and returns the assistant
// reply text. Non-success status or a malformed body yields an UpstreamError.
func (c *client) CreateChatCompletion(ctx context.Context, model string, messages []ChatMessage) (string, error) {
	reqBody := chatCompletionsRequest{
		Model:       model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		TopP:        c.cfg.TopP,
		Stream:      false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", &domain.UpstreamError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.UpstreamError{Status: resp.StatusCode, Detail: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.UpstreamError{Status: resp.StatusCode, Detail: string(body)}
	}

	var completion chatCompletionsResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", &domain.UpstreamError{Status: resp.StatusCode, Detail: fmt.Sprintf("parsing response: %v", err)}
	}
	if len(completion.Choices) == 0 {
		return "", &domain.UpstreamError{Status: resp.StatusCode, Detail: "no choices in response"}
	}

	return completion.Choices[0].Message.Content.Flatten(), nil
}

// FetchImageAsDataURI downloads a resource that is not directly reachable by
// the API and re-encodes it as an inline data URI.
func (c *client) FetchImageAsDataURI(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating image request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	return "data:" + sniffImageType(url) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func sniffImageType(name string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".png"):
		return "image/png"
	case strings.HasSuffix(strings.ToLower(name), ".gif"):
		return "image/gif"
	case strings.HasSuffix(strings.ToLower(name), ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
