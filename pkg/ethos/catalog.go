package ethos

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ellucian-developer/integration-sdk-go/pkg/contracts"
	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
)

// httpCatalogFetcher implements contracts.CatalogFetcher against the
// gateway's configuration endpoints.
type httpCatalogFetcher struct {
	transport contracts.Transport
	baseURL   string
}

func newHTTPCatalogFetcher(transport contracts.Transport, baseURL string) *httpCatalogFetcher {
	return &httpCatalogFetcher{transport: transport, baseURL: baseURL}
}

// FetchCatalog fetches GET {baseURL}/admin/available-resources.
func (f *httpCatalogFetcher) FetchCatalog(ctx context.Context) (model.Catalog, error) {
	resp, err := f.transport.Do(ctx, http.MethodGet, f.baseURL+"/admin/available-resources", nil, nil)
	if err != nil {
		return model.Catalog{}, err
	}
	var catalog model.Catalog
	if err := json.Unmarshal([]byte(resp.Body), &catalog); err != nil {
		return model.Catalog{}, ethoserr.Wrap(ethoserr.Decode, "decode resource catalog", err)
	}
	return catalog, nil
}

// FetchAppConfig fetches GET {baseURL}/appConfig.
func (f *httpCatalogFetcher) FetchAppConfig(ctx context.Context) (model.AppConfig, error) {
	resp, err := f.transport.Do(ctx, http.MethodGet, f.baseURL+"/appConfig", nil, nil)
	if err != nil {
		return model.AppConfig{}, err
	}
	var cfg model.AppConfig
	if err := json.Unmarshal([]byte(resp.Body), &cfg); err != nil {
		return model.AppConfig{}, ethoserr.Wrap(ethoserr.Decode, "decode app config", err)
	}
	return cfg, nil
}

// proxyReader implements contracts.ProxyReader against the criteria-
// filter proxy endpoint, used for the notification service's
// best-effort version-override re-fetch.
type proxyReader struct {
	transport contracts.Transport
	baseURL   string
}

func newProxyReader(transport contracts.Transport, baseURL string) *proxyReader {
	return &proxyReader{transport: transport, baseURL: baseURL}
}

// ReadAt performs GET {baseURL}/api/{resource}/{id} with an Accept
// header pinning versionHeader, returning the decoded JSON body.
func (p *proxyReader) ReadAt(ctx context.Context, resource, id, versionHeader string) (interface{}, error) {
	headers := http.Header{"Accept": []string{versionHeader}}
	resp, err := p.transport.Do(ctx, http.MethodGet, p.baseURL+"/api/"+resource+"/"+id, headers, nil)
	if err != nil {
		return nil, err
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(resp.Body), &decoded); err != nil {
		return nil, ethoserr.Wrap(ethoserr.Decode, "decode proxy read response", err)
	}
	return decoded, nil
}
