package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/pratik-mahalle/ytgate/internal/pkg/metrics"
)

// SDKFetcher makes the videos.list call through the Google API client.
// The caller's API key is attached per call, so one service serves every user.
type SDKFetcher struct {
	svc     *ytapi.Service
	timeout time.Duration
}

// NewSDKFetcher creates a fetcher backed by google.golang.org/api/youtube/v3
func NewSDKFetcher(ctx context.Context, opts Options) (*SDKFetcher, error) {
	opts = opts.withDefaults()

	// The client library appends "youtube/v3/" to the endpoint itself.
	endpoint := strings.TrimSuffix(opts.BaseURL, "/youtube/v3") + "/"

	svc, err := ytapi.NewService(ctx,
		option.WithEndpoint(endpoint),
		option.WithHTTPClient(opts.HTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &SDKFetcher{svc: svc, timeout: opts.Timeout}, nil
}

// FetchMetadata lists a single video and re-encodes the response
func (f *SDKFetcher) FetchMetadata(ctx context.Context, videoID, apiKey string) (*Payload, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := f.svc.Videos.
		List(strings.Split(VideoParts, ",")).
		Id(videoID).
		Context(ctx).
		Do(googleapi.QueryParameter("key", apiKey))
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			metrics.RecordUpstream("sdk", strconv.Itoa(gerr.Code), time.Since(start))
			return nil, upstreamFromGoogle(gerr)
		}
		metrics.RecordUpstream("sdk", "error", time.Since(start))
		if isDeadline(ctx, err) {
			return nil, ErrDeadlineExceeded
		}
		return nil, fmt.Errorf("youtube videos.list: %w", err)
	}

	status := resp.HTTPStatusCode
	if status == 0 {
		status = http.StatusOK
	}
	metrics.RecordUpstream("sdk", strconv.Itoa(status), time.Since(start))

	body, err := resp.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode youtube response: %w", err)
	}
	return &Payload{StatusCode: status, ContentType: "application/json; charset=UTF-8", Body: body}, nil
}

func upstreamFromGoogle(gerr *googleapi.Error) *UpstreamError {
	contentType := "application/json; charset=UTF-8"
	if gerr.Header != nil && gerr.Header.Get("Content-Type") != "" {
		contentType = gerr.Header.Get("Content-Type")
	}
	body := []byte(gerr.Body)
	if len(body) == 0 {
		body = []byte(fmt.Sprintf(`{"error":{"code":%d,"message":%q}}`, gerr.Code, gerr.Message))
	}
	return &UpstreamError{StatusCode: gerr.Code, ContentType: contentType, Body: body}
}

// NewFetcher builds the fetcher selected by mode ("http" or "sdk")
func NewFetcher(ctx context.Context, mode string, opts Options) (Fetcher, error) {
	switch mode {
	case "", "http":
		return NewHTTPFetcher(opts), nil
	case "sdk":
		return NewSDKFetcher(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown youtube client %q", mode)
	}
}
