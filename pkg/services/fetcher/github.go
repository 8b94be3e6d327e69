package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL  = "https://github.com"
	DefaultTimeout  = 10 * time.Second
	DefaultRetryMax = 3

	// a year of heatmap markup is a few hundred kilobytes
	maxDocumentBytes = 10 << 20
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmptyUsername = errors.New("username is required")
	ErrTooLarge      = errors.New("contributions document too large")
)

// Fetcher retrieves the contributions document of a user.
type Fetcher interface {
	Fetch(ctx context.Context, username string) (string, error)
}

type Settings struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
}

type githubFetcher struct {
	baseURL  string
	client   *retryablehttp.Client
	maxBytes int64
}

func NewGitHubFetcher(settings Settings) (Fetcher, error) {
	if settings.BaseURL == "" {
		settings.BaseURL = DefaultBaseURL
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	if settings.RetryMax < 0 {
		return nil, fmt.Errorf("retry max must not be negative, got %d", settings.RetryMax)
	}

	base, err := url.Parse(settings.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", settings.BaseURL)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = settings.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = settings.Timeout
	client.Logger = nil
	client.RequestLogHook = logRetry
	// hand non-2xx responses back instead of an opaque "giving up" error
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &githubFetcher{
		baseURL:  strings.TrimRight(base.String(), "/"),
		client:   client,
		maxBytes: maxDocumentBytes,
	}, nil
}

// logRetry reports retried attempts through the logger of the request context.
func logRetry(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if attempt == 0 {
		return
	}
	zerolog.Ctx(req.Context()).Warn().
		Str("url", req.URL.String()).
		Int("attempt", attempt).
		Msg("retrying contributions request")
}

func (f *githubFetcher) Fetch(ctx context.Context, username string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", ErrEmptyUsername
	}

	logger := zerolog.Ctx(ctx)
	target := fmt.Sprintf("%s/users/%s/contributions", f.baseURL, url.PathEscape(username))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	logger.Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("fetched contributions")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, username)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("%w: more than %d bytes from %s", ErrTooLarge, f.maxBytes, target)
	}

	return string(body), nil
}
