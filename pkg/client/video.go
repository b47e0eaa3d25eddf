package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
)

// FetchResult is the outcome of FetchVideoInfo. It is one of Ok,
// NeedsAuth, QuotaExceeded or Failed.
type FetchResult interface {
	isFetchResult()
}

// Ok carries the upstream metadata payload as returned by YouTube
type Ok struct {
	StatusCode int
	Payload    json.RawMessage
}

// NeedsAuth means there is no usable session: log in again
type NeedsAuth struct {
	Message string
}

// QuotaExceeded means the free lookups are used up
type QuotaExceeded struct {
	Limit       int
	Used        int
	Plans       []Plan
	CheckoutURL string
}

// FailureKind classifies a Failed result
type FailureKind string

const (
	KindInvalidInput     FailureKind = "INVALID_INPUT"
	KindNotFound         FailureKind = "NOT_FOUND"
	KindUpstream         FailureKind = "UPSTREAM"
	KindDeadlineExceeded FailureKind = "DEADLINE_EXCEEDED"
	KindTransport        FailureKind = "TRANSPORT"
	KindServer           FailureKind = "SERVER"
)

// Failed is any other failure
type Failed struct {
	Kind       FailureKind
	StatusCode int
	Message    string
	// Body is the raw response body, when there was one
	Body []byte
}

func (Ok) isFetchResult()            {}
func (NeedsAuth) isFetchResult()     {}
func (QuotaExceeded) isFetchResult() {}
func (Failed) isFetchResult()        {}

type videoInfoRequest struct {
	YoutubeURL string `json:"youtubeUrl"`
	UserAPIKey string `json:"userApiKey"`
}

// FetchVideoInfo requests metadata for one video. It never returns an error;
// every outcome is a FetchResult. Without a token no request is sent.
func (c *Client) FetchVideoInfo(ctx context.Context, youtubeURL, apiKey string) FetchResult {
	if c.token == "" {
		return NeedsAuth{Message: "Please log in to continue."}
	}
	youtubeURL = strings.TrimSpace(youtubeURL)
	apiKey = strings.TrimSpace(apiKey)
	if youtubeURL == "" || apiKey == "" {
		return Failed{Kind: KindInvalidInput, Message: "URL and API Key are required."}
	}

	resp, err := c.doRaw(ctx, http.MethodPost, "/api/youtube/getVideoInfo", videoInfoRequest{
		YoutubeURL: youtubeURL,
		UserAPIKey: apiKey,
	})
	if err != nil {
		if isTimeout(ctx, err) {
			return Failed{Kind: KindDeadlineExceeded, Message: "The request timed out. Please try again."}
		}
		return Failed{Kind: KindTransport, Message: err.Error()}
	}

	return classify(resp)
}

func classify(resp *rawResponse) FetchResult {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return classifyPayload(resp)
	}

	if !isEnvelope(resp.Body) {
		return Failed{
			Kind:       KindUpstream,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(resp),
			Body:       resp.Body,
		}
	}

	apiErr := parseAPIError(resp)
	switch {
	case apiErr.IsUnauthorized():
		return NeedsAuth{Message: apiErr.Message}
	case apiErr.IsPaymentRequired():
		q := QuotaExceeded{}
		var details struct {
			Limit       int    `json:"limit"`
			Used        int    `json:"used"`
			Plans       []Plan `json:"plans"`
			CheckoutURL string `json:"checkout_url"`
		}
		if len(apiErr.Details) > 0 && json.Unmarshal(apiErr.Details, &details) == nil {
			q = QuotaExceeded{Limit: details.Limit, Used: details.Used, Plans: details.Plans, CheckoutURL: details.CheckoutURL}
		}
		return q
	case resp.StatusCode == http.StatusGatewayTimeout || apiErr.Code == "DEADLINE_EXCEEDED":
		return Failed{Kind: KindDeadlineExceeded, StatusCode: resp.StatusCode, Message: apiErr.Message, Body: resp.Body}
	case resp.StatusCode < 500:
		return Failed{Kind: KindInvalidInput, StatusCode: resp.StatusCode, Message: apiErr.Message, Body: resp.Body}
	default:
		return Failed{Kind: KindServer, StatusCode: resp.StatusCode, Message: apiErr.Message, Body: resp.Body}
	}
}

// classifyPayload turns a 2xx videos.list body into Ok, or into a
// NOT_FOUND failure when YouTube matched no video.
func classifyPayload(resp *rawResponse) FetchResult {
	var list struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return Failed{
			Kind:       KindUpstream,
			StatusCode: resp.StatusCode,
			Message:    "Unexpected response from YouTube.",
			Body:       resp.Body,
		}
	}
	if len(list.Items) == 0 {
		return Failed{
			Kind:       KindNotFound,
			StatusCode: resp.StatusCode,
			Message:    "Video does not exist or is inaccessible.",
			Body:       resp.Body,
		}
	}
	return Ok{StatusCode: resp.StatusCode, Payload: json.RawMessage(resp.Body)}
}

// isEnvelope reports whether body is one of the server's own responses
// rather than a passed-through upstream body.
func isEnvelope(body []byte) bool {
	var head struct {
		Success *bool `json:"success"`
	}
	return json.Unmarshal(body, &head) == nil && head.Success != nil
}

// upstreamMessage pulls error.message out of a Google API error body
func upstreamMessage(resp *rawResponse) string {
	var gerr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(resp.Body, &gerr) == nil && gerr.Error.Message != "" {
		return gerr.Error.Message
	}
	if msg := strings.TrimSpace(string(resp.Body)); msg != "" {
		return msg
	}
	return http.StatusText(resp.StatusCode)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
