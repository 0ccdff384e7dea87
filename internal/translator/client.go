// Package translator provides translation backends behind a common
// batch interface, with retries, optional SQLite caching and both a
// web-endpoint Google client and an LLM client.
package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

const (
	// DefaultBatchSize is how many segments one backend request carries.
	DefaultBatchSize = 8
	// MaxRetries is the maximum number of attempts per batch.
	MaxRetries = 5
	// BaseRetryDelay is the first retry delay; it doubles per attempt.
	BaseRetryDelay = 500 * time.Millisecond
	// RequestTimeout bounds a single HTTP request to the backend.
	RequestTimeout = 30 * time.Second
)

// Client translates text segments. Implementations must return one
// output per input, in order, and must treat empty inputs as empty
// outputs.
type Client interface {
	TranslateText(ctx context.Context, text string) (string, error)
	TranslateBatch(ctx context.Context, texts []string) ([]string, error)
	Close() error
}

// GoogleSettings tunes the Google web-endpoint client.
type GoogleSettings struct {
	BatchSize  int
	MaxRetries int
	BaseDelay  time.Duration
	Hosts      []string
}

// DefaultGoogleSettings returns the standard retry and batching
// parameters with the primary and fallback service hosts.
func DefaultGoogleSettings() GoogleSettings {
	return GoogleSettings{
		BatchSize:  DefaultBatchSize,
		MaxRetries: MaxRetries,
		BaseDelay:  BaseRetryDelay,
		Hosts:      []string{"translate.googleapis.com", "translate.google.com"},
	}
}

// GoogleClient translates via the public Google Translate web endpoint.
// Each segment is one GET request; segments are grouped into batches
// only for retry and cache bookkeeping. Failures rotate to the fallback
// host before backing off.
type GoogleClient struct {
	srcLang  string
	tgtLang  string
	settings GoogleSettings
	cache    *Cache
	client   *http.Client

	// sleep is swapped out in tests to avoid real backoff delays.
	sleep func(time.Duration)
}

// NewGoogleClient builds a Google client for one language pair. A nil
// cache disables caching; a non-nil cache is connected here.
func NewGoogleClient(srcLang, tgtLang string, cache *Cache, settings GoogleSettings) (*GoogleClient, error) {
	if settings.BatchSize <= 0 {
		settings.BatchSize = DefaultBatchSize
	}
	if settings.MaxRetries <= 0 {
		settings.MaxRetries = MaxRetries
	}
	if settings.BaseDelay <= 0 {
		settings.BaseDelay = BaseRetryDelay
	}
	if len(settings.Hosts) == 0 {
		settings.Hosts = DefaultGoogleSettings().Hosts
	}
	if srcLang == "" {
		srcLang = "auto"
	}
	if cache != nil {
		if err := cache.Connect(); err != nil {
			return nil, err
		}
	}
	return &GoogleClient{
		srcLang:  srcLang,
		tgtLang:  tgtLang,
		settings: settings,
		cache:    cache,
		client:   &http.Client{Timeout: RequestTimeout},
		sleep:    time.Sleep,
	}, nil
}

// Close closes the attached cache, if any.
func (g *GoogleClient) Close() error {
	if g.cache == nil {
		return nil
	}
	return g.cache.Close()
}

// TranslateText translates a single segment.
func (g *GoogleClient) TranslateText(ctx context.Context, text string) (string, error) {
	out, err := g.TranslateBatch(ctx, []string{text})
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", nil
	}
	return out[0], nil
}

// TranslateBatch translates segments preserving order. Blank segments
// map to empty strings without a backend call; cached segments are
// served from the cache; the rest go to the backend in batches and are
// stored back on success.
func (g *GoogleClient) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	results := make([]string, len(texts))
	var pendingIdx []int
	var pendingTexts []string

	for i, original := range texts {
		value := strings.TrimSpace(original)
		if value == "" {
			continue
		}
		if g.cache != nil {
			if cached, ok := g.cache.Lookup(value, g.srcLang, g.tgtLang); ok {
				results[i] = cached
				continue
			}
		}
		pendingIdx = append(pendingIdx, i)
		pendingTexts = append(pendingTexts, value)
	}

	for start := 0; start < len(pendingTexts); start += g.settings.BatchSize {
		end := start + g.settings.BatchSize
		if end > len(pendingTexts) {
			end = len(pendingTexts)
		}
		batch := pendingTexts[start:end]
		translated, err := g.translateWithRetry(ctx, batch)
		if err != nil {
			return nil, err
		}
		for j, out := range translated {
			results[pendingIdx[start+j]] = out
			if g.cache != nil {
				g.cache.Store(batch[j], g.srcLang, g.tgtLang, out)
			}
		}
	}

	return results, nil
}

// translateWithRetry runs one batch against the primary host, falls
// back to the secondary on error, then backs off exponentially. After
// the final attempt it returns a translation error wrapping the last
// failure.
func (g *GoogleClient) translateWithRetry(ctx context.Context, batch []string) ([]string, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	var lastErr error
	for attempt := 0; attempt < g.settings.MaxRetries; attempt++ {
		for _, host := range g.settings.Hosts {
			out, err := g.translateViaHost(ctx, host, batch)
			if err == nil {
				return out, nil
			}
			lastErr = err
			logger.Debug("translation host failed",
				logger.String("host", host),
				logger.Err(err))
		}

		if ctx.Err() != nil {
			return nil, types.NewAppError(types.ErrTranslation, "translation cancelled", ctx.Err())
		}

		delay := g.settings.BaseDelay * (1 << attempt)
		logger.Warn("translation attempt failed",
			logger.Int("attempt", attempt+1),
			logger.Int("maxRetries", g.settings.MaxRetries),
			logger.String("delay", delay.String()),
			logger.Err(lastErr))
		g.sleep(delay)
	}

	return nil, types.NewAppErrorWithDetails(
		types.ErrTranslation,
		"translation failed after retries",
		fmt.Sprintf("attempted %d times", g.settings.MaxRetries),
		lastErr,
	)
}

func (g *GoogleClient) translateViaHost(ctx context.Context, host string, batch []string) ([]string, error) {
	outputs := make([]string, 0, len(batch))
	for _, text := range batch {
		translated, err := g.translateOne(ctx, host, text)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, translated)
	}
	return outputs, nil
}

// translateOne issues a single request to the gtx web endpoint and
// concatenates the translated sentence fragments from the response.
func (g *GoogleClient) translateOne(ctx context.Context, host, text string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", g.srcLang)
	query.Set("tl", g.tgtLang)
	query.Set("dt", "t")
	query.Set("q", text)
	endpoint := fmt.Sprintf("https://%s/translate_a/single?%s", host, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to create request", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", types.NewAppError(types.ErrNetwork, "translation request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NewAppError(types.ErrNetwork, "failed to read translation response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", types.NewAppErrorWithDetails(
			types.ErrNetwork,
			"translation backend returned error status",
			fmt.Sprintf("HTTP %d", resp.StatusCode),
			nil,
		)
	}

	return parseGtxResponse(body)
}

// parseGtxResponse extracts the translated text from the gtx JSON
// payload. The payload's first element is a list of sentence entries
// whose first field is the translated fragment.
func parseGtxResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", types.NewAppError(types.ErrTranslation, "failed to parse translation response", err)
	}
	if len(payload) == 0 || payload[0] == nil {
		return "", nil
	}
	sentences, ok := payload[0].([]any)
	if !ok {
		return "", types.NewAppError(types.ErrTranslation, "unexpected translation response shape", nil)
	}

	var sb strings.Builder
	for _, entry := range sentences {
		parts, ok := entry.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if fragment, ok := parts[0].(string); ok {
			sb.WriteString(fragment)
		}
	}
	return sb.String(), nil
}
