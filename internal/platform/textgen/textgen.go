package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/httpx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// Generator is a single-shot text completion. Output has no structural
// contract; callers parse it defensively.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

type Config struct {
	Provider   Provider
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

var (
	ErrNotConfigured    = errors.New("text generation api key not configured")
	ErrEmptyCompletion  = errors.New("text generation returned no text")
	ErrResponseTooLarge = errors.New("text generation response too large")
)

// maxResponseBytes caps a provider response body.
const maxResponseBytes = 4 << 20

func New(cfg Config, log *logger.Logger, metrics *observability.Metrics) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	base := baseClient{
		log:        log.With("client", "textgen", "provider", string(cfg.Provider)),
		metrics:    metrics,
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: max(cfg.MaxRetries, 0),
		maxBody:    maxResponseBytes,
	}
	switch cfg.Provider {
	case ProviderGemini, "":
		base.provider = ProviderGemini
		return newGemini(base, cfg.BaseURL, cfg.Model), nil
	case ProviderOpenAI:
		base.provider = ProviderOpenAI
		return newOpenAI(base, cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown text generation provider %q", cfg.Provider)
	}
}

type baseClient struct {
	log        *logger.Logger
	metrics    *observability.Metrics
	httpClient *http.Client
	provider   Provider
	apiKey     string
	maxRetries int
	maxBody    int64
}

// postJSON sends body to url and decodes a 2xx response into out. Retries
// follow the configured policy; the default of zero means one attempt.
func (c *baseClient) postJSON(ctx context.Context, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	start := time.Now()
	err = httpx.Retry(ctx, httpx.RetryPolicy{
		MaxRetries: c.maxRetries,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			c.log.Warn("text generation request retrying",
				"attempt", attempt,
				"max_retries", c.maxRetries,
				"sleep", wait.String(),
				"error", err.Error(),
			)
		},
	}, func(ctx context.Context) error {
		return c.doOnce(ctx, url, headers, payload, out)
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.metrics.ObserveTextGen(string(c.provider), outcome, time.Since(start))
	return err
}

func (c *baseClient) doOnce(ctx context.Context, url string, headers map[string]string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if int64(len(raw)) > c.maxBody {
		return fmt.Errorf("%s: %w (limit %d bytes)", c.provider, ErrResponseTooLarge, c.maxBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpx.StatusError{
			Service:    string(c.provider),
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			RetryAfter: httpx.RetryAfterDuration(resp, 0, 30*time.Second),
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s decode error: %w", c.provider, err)
	}
	return nil
}

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Complete(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }
