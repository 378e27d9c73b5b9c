// internal/words/remote.go
//
// HTTP-backed collaborators.
//   - RemoteProvider: random-word-api style service, GET {base}/word?length=N
//     returning a JSON array of strings.
//   - RemoteChecker: dictionaryapi.dev style service, GET
//     {base}/api/v2/entries/en/{word}; 2xx means the word exists, 404 that
//     it does not.
//
// Status mapping for the checker:
//   2xx                       → valid
//   404                       → invalid (definitive)
//   other 4xx, 5xx, transport → ErrUnavailable

package words

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wordplay/wordle/internal/telemetry"
)

const (
	DefaultRandomWordURL = "https://random-word-api.herokuapp.com"
	DefaultDictionaryURL = "https://api.dictionaryapi.dev"
	DefaultTimeout       = 5 * time.Second
)

// maxBody bounds how much of a response we read.
const maxBody = 1 << 20

// RemoteProvider fetches secret words from a random-word HTTP API.
type RemoteProvider struct {
	baseURL string
	client  *http.Client
}

// NewRemoteProvider creates a provider for baseURL. A zero timeout uses DefaultTimeout.
func NewRemoteProvider(baseURL string, timeout time.Duration) *RemoteProvider {
	if baseURL == "" {
		baseURL = DefaultRandomWordURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchRandomWord requests one word of the given length and returns it uppercased.
func (p *RemoteProvider) FetchRandomWord(ctx context.Context, length int) (_ string, err error) {
	ctx, span := telemetry.Tracer("words").Start(ctx, "words.fetch_random")
	span.SetAttributes(attribute.Int("word.length", length))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	u := p.baseURL + "/word?length=" + strconv.Itoa(length)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var list []string
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&list); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrBadWord, err)
	}
	if len(list) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrBadWord)
	}
	return Normalize(list[0], length)
}

// RemoteChecker validates guesses against a dictionary HTTP API.
type RemoteChecker struct {
	baseURL string
	client  *http.Client
}

// NewRemoteChecker creates a checker for baseURL. A zero timeout uses DefaultTimeout.
func NewRemoteChecker(baseURL string, timeout time.Duration) *RemoteChecker {
	if baseURL == "" {
		baseURL = DefaultDictionaryURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RemoteChecker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// IsValidWord looks the lowercased word up in the dictionary.
func (c *RemoteChecker) IsValidWord(ctx context.Context, word string) (_ bool, err error) {
	ctx, span := telemetry.Tracer("words").Start(ctx, "words.check")
	span.SetAttributes(attribute.Int("word.length", len(word)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	u := c.baseURL + "/api/v2/entries/en/" + url.PathEscape(strings.ToLower(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		// Only "no such entry" says anything about the word; callers may
		// cache a definitive answer.
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}
