// Package ethos is the SDK's top-level entry point: a single Client
// wiring together credential management, the version resolver, the
// errors and messages clients, and the notification poll engine behind
// one constructor and a set of functional options.
package ethos

import (
	"context"
	"net/http"
	"time"

	"github.com/ellucian-developer/integration-sdk-go/internal/config"
	"github.com/ellucian-developer/integration-sdk-go/internal/telemetry"
	"github.com/ellucian-developer/integration-sdk-go/internal/transport"
	"github.com/ellucian-developer/integration-sdk-go/internal/urlbuild"
	"github.com/ellucian-developer/integration-sdk-go/pkg/auth"
	"github.com/ellucian-developer/integration-sdk-go/pkg/contracts"
	"github.com/ellucian-developer/integration-sdk-go/pkg/errorsapi"
	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
	"github.com/ellucian-developer/integration-sdk-go/pkg/messages"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
	"github.com/ellucian-developer/integration-sdk-go/pkg/notify"
	"github.com/ellucian-developer/integration-sdk-go/pkg/polling"
	"github.com/ellucian-developer/integration-sdk-go/pkg/version"
)

// Error, Kind and the exported Kind constants are the SDK's public
// error taxonomy. They live in pkg/ethoserr to avoid an import cycle
// (every package Client wires needs to construct one, and this package
// imports all of them), and are re-exported here under their natural
// public name.
type Error = ethoserr.Error
type Kind = ethoserr.Kind

const (
	InvalidArgument    = ethoserr.InvalidArgument
	Transport          = ethoserr.Transport
	HTTPResponse       = ethoserr.HTTPResponse
	ResourceNotFound   = ethoserr.ResourceNotFound
	UnsupportedVersion = ethoserr.UnsupportedVersion
	Decode             = ethoserr.Decode
	Subscription       = ethoserr.Subscription
)

// Region re-exports model.Region so callers don't need to import
// pkg/model for the common case.
type Region = model.Region

const (
	RegionUS        = model.RegionUS
	RegionCanada    = model.RegionCanada
	RegionEurope    = model.RegionEurope
	RegionAustralia = model.RegionAustralia
)

// Client is the SDK's facade: one credential manager, one version
// resolver, and thin clients for errors/messages, all sharing one
// transport wrapper.
type Client struct {
	Errors   *errorsapi.Client
	Messages *messages.Client
	Versions *version.Resolver

	creds        *auth.CredentialManager
	transport    contracts.Transport
	proxyReader  contracts.ProxyReader
	region       model.Region
	shutdownOTel func(context.Context) error
}

// Option configures a Client at construction time.
type Option func(*options)

type options struct {
	region            model.Region
	connectTimeout    time.Duration
	requestTimeout    time.Duration
	socketTimeout     time.Duration
	autoRefresh       bool
	expirationMinutes int
	telemetry         bool
	otlpEndpoint      string
	serviceName       string
	httpClient        *http.Client
}

// WithRegion selects the gateway's regional deployment. Defaults to RegionUS.
func WithRegion(r Region) Option {
	return func(o *options) { o.region = r }
}

// WithTimeouts overrides the connect/request/socket timeouts (each
// defaults to 60s).
func WithTimeouts(connect, request, socket time.Duration) Option {
	return func(o *options) {
		o.connectTimeout = connect
		o.requestTimeout = request
		o.socketTimeout = socket
	}
}

// WithAutoRefresh controls whether the credential manager is allowed to
// mint a fresh token once the cached one has expired; the first token is
// minted regardless. Defaults to true.
func WithAutoRefresh(enabled bool) Option {
	return func(o *options) { o.autoRefresh = enabled }
}

// WithExpirationMinutes sets the expirationMinutes sent on token
// refresh requests (must be in [1,120], default 60).
func WithExpirationMinutes(minutes int) Option {
	return func(o *options) { o.expirationMinutes = minutes }
}

// WithTelemetry enables OpenTelemetry tracing of outbound calls,
// exporting via OTLP gRPC to endpoint.
func WithTelemetry(endpoint, serviceName string) Option {
	return func(o *options) {
		o.telemetry = true
		o.otlpEndpoint = endpoint
		o.serviceName = serviceName
	}
}

// WithHTTPClient overrides the *http.Client the SDK sends requests
// through, bypassing WithTimeouts entirely. Intended for pointing a
// Client at an httptest.Server in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// New builds a Client for the tenant identified by apiKey (a GUID).
// Construction fails with an invalid-argument error if apiKey doesn't
// match the gateway's expected shape.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := config.Load()

	o := &options{
		region:            regionFromString(cfg.Region),
		connectTimeout:    cfg.ConnectTimeout,
		requestTimeout:    cfg.RequestTimeout,
		socketTimeout:     cfg.SocketTimeout,
		autoRefresh:       true,
		expirationMinutes: cfg.ExpirationMinutes,
		telemetry:         cfg.Telemetry.Enabled,
		otlpEndpoint:      cfg.Telemetry.OTLPEndpoint,
		serviceName:       cfg.Telemetry.ServiceName,
	}
	for _, opt := range opts {
		opt(o)
	}

	shutdownOTel, err := telemetry.Init(telemetryConfig(o))
	if err != nil {
		return nil, err
	}

	base := urlbuild.BaseURL(o.region)

	// A transport wrapper with no TokenSource is used only to mint
	// tokens: the auth endpoint takes Bearer <apiKey>, supplied
	// explicitly by the credential manager, never the cached token.
	authTransport := transport.New(transportConfig(o), nil)
	creds, err := auth.New(authTransport, auth.AuthURLFor(base), apiKey)
	if err != nil {
		shutdownOTel(context.Background())
		return nil, err
	}
	creds.SetAutoRefresh(o.autoRefresh)
	if err := creds.SetExpirationMinutes(o.expirationMinutes); err != nil {
		shutdownOTel(context.Background())
		return nil, err
	}

	tr := transport.New(transportConfig(o), creds)

	catalogFetcher := newHTTPCatalogFetcher(tr, base)

	return &Client{
		Errors:       errorsapi.New(tr, urlbuild.Build(o.region, "/errors")),
		Messages:     messages.New(tr, urlbuild.Build(o.region, "/consume")),
		Versions:     version.New(catalogFetcher),
		creds:        creds,
		transport:    tr,
		proxyReader:  newProxyReader(tr, base),
		region:       o.region,
		shutdownOTel: shutdownOTel,
	}, nil
}

// NotificationService builds a notify.Service wrapping this Client's
// Messages client, applying a best-effort version override per
// resource according to versions (resource name -> media-type header).
func (c *Client) NotificationService(versions map[string]string) *notify.Service {
	return notify.New(c.Messages, c.proxyReader, versions)
}

// PerItemSubscriptions builds a polling.PerItemPublisher over the given
// fetcher (typically the result of NotificationService), dispatching
// each notification in a drained batch individually to subscribers.
func (c *Client) PerItemSubscriptions(fetcher polling.Fetcher) *polling.PerItemPublisher {
	return polling.NewPerItemPublisher(fetcher)
}

// PerBatchSubscriptions builds a polling.PerBatchPublisher over the
// given fetcher, dispatching each drained batch as a whole to subscribers.
func (c *Client) PerBatchSubscriptions(fetcher polling.Fetcher) *polling.PerBatchPublisher {
	return polling.NewPerBatchPublisher(fetcher)
}

// Token returns the current bearer token, refreshing it if necessary.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.creds.Acquire(ctx)
}

// Transport exposes the Client's shared transport, for building
// additional thin clients (e.g. a custom proxy reader for pkg/notify).
func (c *Client) Transport() contracts.Transport {
	return c.transport
}

// BaseURL returns the regional gateway base URL this Client was built for.
func (c *Client) BaseURL() string {
	return urlbuild.BaseURL(c.region)
}

// Close releases the telemetry exporter, if one was started.
func (c *Client) Close(ctx context.Context) error {
	if c.shutdownOTel == nil {
		return nil
	}
	return c.shutdownOTel(ctx)
}

func transportConfig(o *options) transport.Config {
	return transport.Config{
		ConnectTimeout: o.connectTimeout,
		RequestTimeout: o.requestTimeout,
		SocketTimeout:  o.socketTimeout,
		Telemetry:      o.telemetry,
		HTTPClient:     o.httpClient,
	}
}

func telemetryConfig(o *options) config.TelemetryConfig {
	return config.TelemetryConfig{
		Enabled:      o.telemetry,
		OTLPEndpoint: o.otlpEndpoint,
		ServiceName:  o.serviceName,
	}
}

func regionFromString(s string) model.Region {
	switch s {
	case "canada", "ca":
		return model.RegionCanada
	case "europe", "eu":
		return model.RegionEurope
	case "australia", "au":
		return model.RegionAustralia
	default:
		return model.RegionUS
	}
}
