// Package transport is the SDK's single outbound HTTP path. Every
// client package builds a request and hands it to a Wrapper rather
// than touching net/http directly, so timeouts, TLS policy, default
// headers, and tracing stay consistent across auth, version, messages,
// errorsapi, and notify.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ellucian-developer/integration-sdk-go/internal/telemetry"
	"github.com/ellucian-developer/integration-sdk-go/pkg/contracts"
	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	userAgent = "integration-sdk-go"
)

// Wrapper sends requests through a configured *http.Client and
// normalizes the result into a model.Response, or an *ethoserr.Error
// on failure.
type Wrapper struct {
	client    *http.Client
	tokens    contracts.TokenSource
	telemetry bool
}

// Config carries the timeout knobs read from internal/config.
type Config struct {
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	SocketTimeout  time.Duration
	Telemetry      bool

	// HTTPClient overrides the client Wrapper sends requests through,
	// bypassing the timeout/TLS knobs above entirely. Nil builds one
	// from the timeout fields, as normal. Callers use this to point the
	// SDK at an httptest.Server in tests.
	HTTPClient *http.Client
}

// New builds a Wrapper. tokens may be nil — calls then go out without
// an Authorization header, which is how the auth endpoint itself is
// reached.
func New(cfg Config, tokens contracts.TokenSource) *Wrapper {
	client := cfg.HTTPClient
	if client == nil {
		dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}

		rt := &http.Transport{
			DialContext:         dialer.DialContext,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
			IdleConnTimeout:     cfg.SocketTimeout,
			TLSHandshakeTimeout: cfg.ConnectTimeout,
		}
		client = &http.Client{
			Transport: rt,
			Timeout:   cfg.RequestTimeout,
		}
	}

	return &Wrapper{
		client:    client,
		tokens:    tokens,
		telemetry: cfg.Telemetry,
	}
}

// Do executes method against url with the given headers and body,
// returning a populated model.Response. Non-2xx statuses are surfaced
// as *ethoserr.Error{Kind: HTTPResponse}, not as a nil Response.
func (w *Wrapper) Do(ctx context.Context, method, url string, headers http.Header, body []byte) (model.Response, error) {
	var spanEnd func()
	if w.telemetry {
		var sctx context.Context
		sctx, sp := telemetry.StartSpan(ctx, "ethos."+method)
		ctx = sctx
		spanEnd = func() { sp.End() }
	}
	if spanEnd != nil {
		defer spanEnd()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return model.Response{}, ethoserr.Wrap(ethoserr.Transport, "build request", err)
	}

	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", userAgent)
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	if w.tokens != nil {
		token, err := w.tokens.Token(ctx)
		if err != nil {
			return model.Response{}, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log.Debug().Str("method", method).Str("url", url).Str("request_id", reqID).Msg("ethos: outbound request")

	resp, err := w.client.Do(req)
	if err != nil {
		return model.Response{}, ethoserr.Wrap(ethoserr.Transport, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Response{}, ethoserr.Wrap(ethoserr.Transport, "read response body", err)
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	out := model.Response{
		Header:     flattenHeader(resp.Header),
		Status:     status,
		Body:       string(raw),
		RequestURL: url,
	}

	if status < 200 || status >= 300 {
		return out, ethoserr.HTTPStatus(status, out.Body)
	}

	return out, nil
}

// flattenHeader keeps the last value for a repeated header, matching
// spec.md's "last write wins" rule for duplicate response headers.
func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) == 0 {
			continue
		}
		out[k] = vs[len(vs)-1]
	}
	return out
}
