package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/pkg/metrics"
)

// DefaultBaseURL is the YouTube Data API v3 root
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// VideoParts is the fixed part selector sent upstream
const VideoParts = "snippet,contentDetails,statistics,status"

const defaultMaxBody = 4 << 20

// ErrDeadlineExceeded is returned when the upstream call outlives its deadline
var ErrDeadlineExceeded = errors.New("youtube upstream deadline exceeded")

// ErrBodyTooLarge is returned when the upstream body exceeds MaxBodyBytes
var ErrBodyTooLarge = errors.New("youtube response body too large")

// Payload is an upstream response passed through as-is
type Payload struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// UpstreamError carries a non-2xx upstream response unchanged
type UpstreamError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("youtube upstream returned %d", e.StatusCode)
}

// Fetcher retrieves video metadata for a single video ID
type Fetcher interface {
	FetchMetadata(ctx context.Context, videoID, apiKey string) (*Payload, error)
}

// Options configures a fetcher
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	MaxBodyBytes int64
	HTTPClient   *http.Client
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBody
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	return o
}

// HTTPFetcher calls the videos endpoint directly. One request per call,
// no retries and no caching.
type HTTPFetcher struct {
	opts Options
}

// NewHTTPFetcher creates a plain HTTP fetcher
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	return &HTTPFetcher{opts: opts.withDefaults()}
}

// FetchMetadata issues GET {base}/videos for videoID
func (f *HTTPFetcher) FetchMetadata(ctx context.Context, videoID, apiKey string) (*Payload, error) {
	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set("part", VideoParts)
	params.Set("id", videoID)
	params.Set("key", apiKey)
	apiURL := f.opts.BaseURL + "/videos?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build youtube request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.opts.HTTPClient.Do(req)
	if err != nil {
		metrics.RecordUpstream("http", "error", time.Since(start))
		if isDeadline(ctx, err) {
			return nil, ErrDeadlineExceeded
		}
		// Strip the URL so the API key never lands in an error message.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("youtube request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes+1))
	metrics.RecordUpstream("http", strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		if isDeadline(ctx, err) {
			return nil, ErrDeadlineExceeded
		}
		return nil, fmt.Errorf("read youtube response: %w", err)
	}
	if int64(len(body)) > f.opts.MaxBodyBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, f.opts.MaxBodyBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, ContentType: contentType, Body: body}
	}
	return &Payload{StatusCode: resp.StatusCode, ContentType: contentType, Body: body}, nil
}

func isDeadline(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
