// Package contracts defines the interfaces that bind the SDK's
// subsystems together: token sourcing, HTTP transport, catalog
// fetching, proxy reads, and notification subscription.
//
// Keeping these as small interfaces rather than concrete struct
// dependencies lets every subsystem be tested in isolation and lets a
// caller substitute its own transport or token source in tests.
package contracts

import (
	"context"
	"net/http"

	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
)

// TokenSource returns the bearer token to attach to an outbound
// request. Returning an empty string means no Authorization header is
// attached to that request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Transport executes an HTTP call and returns a populated response
// envelope. Implemented by internal/transport.Wrapper; tests substitute
// small fake structs.
type Transport interface {
	Do(ctx context.Context, method, url string, headers http.Header, body []byte) (model.Response, error)
}

// CatalogFetcher fetches the gateway's resource-catalog and
// app-configuration documents. Implemented by the version resolver's
// HTTP-backed client; the resolver itself depends only on this
// interface so it can be tested against a fixture.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) (model.Catalog, error)
	FetchAppConfig(ctx context.Context) (model.AppConfig, error)
}

// ProxyReader performs a single proxy read of a resource instance by
// ID at a specific version, used by the
// change-notification service's best-effort version override.
type ProxyReader interface {
	ReadAt(ctx context.Context, resource, id, versionHeader string) (interface{}, error)
}

// ItemSubscriber receives notifications one at a time from a
// per-item Publisher. A non-nil return from OnNext is reported to
// OnError but does not stop the subscription — a buggy subscriber is
// isolated from the fetch/dispatch loop, not allowed to kill it.
type ItemSubscriber interface {
	OnNext(ctx context.Context, n model.ChangeNotification) error
	OnError(ctx context.Context, err error)
	OnComplete(ctx context.Context)
}

// BatchSubscriber receives whole batches from a per-batch Publisher.
// A non-nil return from OnNextBatch is reported to OnError but does
// not stop the subscription, matching ItemSubscriber's isolation.
type BatchSubscriber interface {
	OnNextBatch(ctx context.Context, batch []model.ChangeNotification) error
	OnError(ctx context.Context, err error)
	OnComplete(ctx context.Context)
}
