// Package messages is the thin client over the gateway's
// change-notification message queue: how many messages are waiting,
// and draining up to a bounded number of them. Position advances
// server-side — this client never manages offsets.
package messages

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ellucian-developer/integration-sdk-go/pkg/contracts"
	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
)

const (
	minLimit = 1
	maxLimit = 1000

	headerRemaining = "x-remaining"
)

// Client fetches change-notification messages from a tenant's queue.
type Client struct {
	transport contracts.Transport
	baseURL   string
}

// New builds a messages Client against baseURL (the region's message
// endpoint), executing calls through transport.
func New(transport contracts.Transport, baseURL string) *Client {
	return &Client{transport: transport, baseURL: baseURL}
}

// AvailableCount issues a HEAD request and returns the queue depth
// reported in the x-remaining response header.
func (c *Client) AvailableCount(ctx context.Context) (int, error) {
	resp, err := c.transport.Do(ctx, http.MethodHead, c.baseURL, nil, nil)
	if err != nil {
		return 0, err
	}
	remaining := resp.HeaderValue(headerRemaining)
	if remaining == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(remaining)
	if err != nil {
		return 0, ethoserr.Wrap(ethoserr.Decode, "parse x-remaining header", err)
	}
	return n, nil
}

// Consume fetches up to limit messages (limit must be in [1,1000]),
// resuming after lastProcessedID when non-empty. The result holds the
// raw response body as a string, undecoded; callers type-assert and
// decode it themselves.
func (c *Client) Consume(ctx context.Context, limit int, lastProcessedID string) (interface{}, error) {
	if limit < minLimit || limit > maxLimit {
		return nil, ethoserr.InvalidArg("Client", "limit", "limit must be between 1 and 1000")
	}

	url := c.baseURL + "?limit=" + strconv.Itoa(limit)
	if lastProcessedID != "" {
		url += "&lastProcessedID=" + lastProcessedID
	}
	resp, err := c.transport.Do(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
