// Package errorsapi is the thin client over the gateway's error-record
// endpoint: paged reads, creation, single-record lookup, and a count
// probe, plus a paging helper that drains a whole range.
package errorsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/ellucian-developer/integration-sdk-go/pkg/contracts"
	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
	"golang.org/x/sync/errgroup"
)

const (
	headerTotalCount = "x-total-count"
	headerRemaining  = "x-remaining"

	maxPrefetchConcurrency = 4
)

// Client is a CRUD-ish client over the tenant's error-record store.
type Client struct {
	transport contracts.Transport
	baseURL   string
}

// New builds an errorsapi Client against baseURL.
func New(transport contracts.Transport, baseURL string) *Client {
	return &Client{transport: transport, baseURL: baseURL}
}

// Page fetches one page of error records starting at offset, bounded
// to limit rows, and reports the x-remaining row count the server
// attaches to the response.
func (c *Client) Page(ctx context.Context, offset, limit int) ([]model.ErrorRecord, int, error) {
	url := c.baseURL + "?offset=" + strconv.Itoa(offset) + "&limit=" + strconv.Itoa(limit)
	resp, err := c.transport.Do(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return nil, 0, err
	}
	recs, err := decodeRecords(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	remaining := 0
	if v := resp.HeaderValue(headerRemaining); v != "" {
		remaining, _ = strconv.Atoi(v)
	}
	return recs, remaining, nil
}

// Create persists a new error record.
func (c *Client) Create(ctx context.Context, record model.ErrorRecord) (model.ErrorRecord, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return model.ErrorRecord{}, ethoserr.Wrap(ethoserr.Decode, "marshal error record", err)
	}
	headers := http.Header{"Content-Type": []string{"application/json"}}
	resp, err := c.transport.Do(ctx, http.MethodPost, c.baseURL, headers, body)
	if err != nil {
		return model.ErrorRecord{}, err
	}
	var created model.ErrorRecord
	if err := json.Unmarshal([]byte(resp.Body), &created); err != nil {
		return model.ErrorRecord{}, ethoserr.Wrap(ethoserr.Decode, "decode created error record", err)
	}
	return created, nil
}

// Get fetches a single error record by id.
func (c *Client) Get(ctx context.Context, id string) (model.ErrorRecord, error) {
	resp, err := c.transport.Do(ctx, http.MethodGet, c.baseURL+"/"+id, nil, nil)
	if err != nil {
		return model.ErrorRecord{}, err
	}
	var rec model.ErrorRecord
	if err := json.Unmarshal([]byte(resp.Body), &rec); err != nil {
		return model.ErrorRecord{}, ethoserr.Wrap(ethoserr.Decode, "decode error record", err)
	}
	return rec, nil
}

// Count issues a HEAD request and returns the total row count reported
// in the x-total-count response header.
func (c *Client) Count(ctx context.Context) (int, error) {
	resp, err := c.transport.Do(ctx, http.MethodHead, c.baseURL, nil, nil)
	if err != nil {
		return 0, err
	}
	total := resp.HeaderValue(headerTotalCount)
	if total == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, ethoserr.Wrap(ethoserr.Decode, "parse x-total-count header", err)
	}
	return n, nil
}

// DrainAll pages through the error-record range starting at
// startOffset in pageSize chunks until the server reports no
// remaining rows via x-remaining, and returns the accumulated records
// page by page in offset order, each page's records ordered by
// CreatedAt. Each wave of up to maxPrefetchConcurrency pages is
// fetched concurrently via errgroup; waves stop as soon as any page in
// the wave reports zero remaining.
func (c *Client) DrainAll(ctx context.Context, startOffset, pageSize int) ([]model.ErrorRecord, error) {
	if pageSize < 1 {
		return nil, ethoserr.InvalidArg("Client", "pageSize", "pageSize must be positive")
	}

	var all []model.ErrorRecord
	offset := startOffset

	for {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxPrefetchConcurrency)

		pages := make([][]model.ErrorRecord, maxPrefetchConcurrency)
		remainingAt := make([]int, maxPrefetchConcurrency)
		for i := 0; i < maxPrefetchConcurrency; i++ {
			i := i
			pageOffset := offset + i*pageSize
			g.Go(func() error {
				recs, remaining, err := c.Page(gctx, pageOffset, pageSize)
				if err != nil {
					return err
				}
				pages[i] = recs
				remainingAt[i] = remaining
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		exhausted := false
		for i := 0; i < maxPrefetchConcurrency; i++ {
			all = append(all, pages[i]...)
			if remainingAt[i] <= 0 {
				exhausted = true
				break
			}
		}

		if exhausted {
			break
		}
		offset += maxPrefetchConcurrency * pageSize
	}

	return all, nil
}

func decodeRecords(body string) ([]model.ErrorRecord, error) {
	var recs []model.ErrorRecord
	if err := json.Unmarshal([]byte(body), &recs); err != nil {
		return nil, ethoserr.Wrap(ethoserr.Decode, "decode error record page", err)
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].CreatedAt.Before(recs[j].CreatedAt) })
	return recs, nil
}
