// Package relay is the outbound client for the chat reply webhook. It posts
// the user's text as {"text": ...}, bounds the call with a configurable
// timeout, and normalizes the heterogeneous reply shapes the endpoint is
// known to produce into plain display text.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	// QueryAck is shown when the reply carries a "query" field: the endpoint
	// is assumed to have performed a data-mutating action itself, so the
	// query text is never echoed to the user.
	QueryAck = "I've applied that change to your trip data."

	// Uninterpretable is shown when a JSON reply matches none of the known
	// shapes.
	Uninterpretable = "I couldn't interpret the agent's response."
)

// maxReplyBytes caps how much of a webhook response body is read.
const maxReplyBytes = 1 << 20

// Client calls the configured chat webhook. A client with an empty URL is
// valid but unconfigured; callers check Configured before sending.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
}

// New constructs a Client for the given webhook URL and per-call timeout.
func New(url string, timeout time.Duration) *Client {
	return &Client{
		url:     url,
		timeout: timeout,
		// The per-call timeout is enforced via context so a caller-supplied
		// deadline can still shorten it.
		http: &http.Client{},
	}
}

// Configured reports whether a webhook URL is set.
func (c *Client) Configured() bool {
	return c.url != ""
}

// Ask posts text to the webhook and returns the normalized reply. The call
// is aborted once the client's timeout elapses; transport failures
// (including timeout) are returned as errors for the caller to surface as a
// synthetic assistant message.
func (c *Client) Ask(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("relay.Client.Ask: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("relay.Client.Ask: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain, application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay.Client.Ask: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("relay.Client.Ask: read body: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return Normalize(raw), nil
	}
	// Anything non-JSON is treated as plain text verbatim.
	return string(raw), nil
}

// probe is one entry of the ordered reply-shape table: a named path plus an
// extractor. Probes run in declaration order; the first hit wins.
type probe struct {
	name    string
	extract func(m map[string]any) (string, bool)
}

// replyProbes lists the known reply paths in priority order. "output" beats
// "message" beats "text"; the nested n8n shape {"json": {"output": ...}} is
// probed first.
var replyProbes = []probe{
	{"json.output", func(m map[string]any) (string, bool) {
		nested, ok := m["json"].(map[string]any)
		if !ok {
			return "", false
		}
		return stringValue(nested["output"])
	}},
	{"output", func(m map[string]any) (string, bool) { return stringValue(m["output"]) }},
	{"assistant_reply", func(m map[string]any) (string, bool) { return stringValue(m["assistant_reply"]) }},
	{"message", func(m map[string]any) (string, bool) { return stringValue(m["message"]) }},
	{"text", func(m map[string]any) (string, bool) { return stringValue(m["text"]) }},
}

// Normalize interprets a JSON reply body. Bare strings pass through; object
// replies are probed in replyProbes order; an object carrying only a
// "query" field maps to the fixed QueryAck; anything else maps to
// Uninterpretable.
func Normalize(raw []byte) string {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		// Mislabeled content type; show the body as-is.
		return string(raw)
	}

	switch v := data.(type) {
	case string:
		return v
	case map[string]any:
		for _, p := range replyProbes {
			if text, ok := p.extract(v); ok {
				return text
			}
		}
		if _, ok := stringValue(v["query"]); ok {
			return QueryAck
		}
		return Uninterpretable
	default:
		return Uninterpretable
	}
}

// stringValue renders a scalar JSON value as display text. Empty strings and
// non-scalar values report no match, mirroring the truthiness checks of the
// original client.
func stringValue(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, s != ""
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), s
	default:
		return "", false
	}
}
