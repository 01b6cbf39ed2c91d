package garmin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// userAgent identifies a desktop browser. Garmin gates access by
	// user-agent sniffing, so every request carries this value.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/54.0.2816.0 Safari/537.36"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default request rate (requests per second).
	// Garmin documents no rate limit contract, so requests are paced
	// conservatively rather than issued back to back.
	DefaultRateLimit = 2
)

// Transport issues HTTP requests against Garmin Connect. All requests made
// through one Transport share a single cookie jar, which is how the SSO
// session established by the Authenticator is carried into every later
// listing and update call.
type Transport struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// TransportOption configures the Transport.
type TransportOption func(*Transport)

// WithHTTPClient sets a custom HTTP client. The client's cookie jar is
// replaced so session cookies are still shared across requests.
func WithHTTPClient(httpClient *http.Client) TransportOption {
	return func(t *Transport) {
		t.httpClient = httpClient
	}
}

// WithRateLimit sets a custom request rate.
func WithRateLimit(requestsPerSecond int) TransportOption {
	return func(t *Transport) {
		t.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) TransportOption {
	return func(t *Transport) {
		t.logger = logger
	}
}

// NewTransport creates a Transport with a fresh, empty cookie jar.
func NewTransport(opts ...TransportOption) (*Transport, error) {
	t := &Transport{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(t)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	t.httpClient.Jar = jar

	return t, nil
}

// Request issues one HTTP request. A nil body sends a GET, a non-nil body a
// POST with that body (the caller encodes it and sets Content-Type through
// headers). Extra headers are merged on top of the fixed browser header set.
//
// HTTP 200 returns the response body. HTTP 204 returns an empty body and no
// error; Garmin answers 204 for certain valid resource states and it must
// not be treated as a failure. Any other status returns a *TransportError.
func (t *Transport) Request(ctx context.Context, rawURL string, body []byte, headers map[string]string) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	method := http.MethodGet
	var reader io.Reader
	if body != nil {
		method = http.MethodPost
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	if t.logger != nil {
		t.logger.Debug().
			Str("method", method).
			Str("url", rawURL).
			Msg("Garmin Connect request")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return data, nil
	case http.StatusNoContent:
		return nil, nil
	default:
		if t.logger != nil {
			t.logger.Error().
				Str("url", rawURL).
				Int("status", resp.StatusCode).
				Msg("Garmin Connect request failed")
		}
		return nil, &TransportError{Status: resp.StatusCode, URL: rawURL}
	}
}
