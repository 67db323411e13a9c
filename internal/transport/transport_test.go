package transport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ellucian-developer/integration-sdk-go/internal/transport"
	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
)

type fakeTokenSource struct {
	token string
	err   error
}

func (f fakeTokenSource) Token(ctx context.Context) (string, error) { return f.token, f.err }

func TestDo_SendsRequestIDAndAuthHeader(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		w.Header().Set("x-total-count", "3")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	w := transport.New(transport.Config{HTTPClient: srv.Client()}, fakeTokenSource{token: "abc123"})

	resp, err := w.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", resp.Status)
	}
	if resp.Body != `{"ok":true}` {
		t.Errorf("Body = %q", resp.Body)
	}
	if resp.HeaderValue("x-total-count") != "3" {
		t.Errorf("HeaderValue(x-total-count) = %q, want %q", resp.HeaderValue("x-total-count"), "3")
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer abc123")
	}
	if gotReqID == "" {
		t.Error("expected X-Request-Id to be set")
	}
}

func TestDo_NonSuccessStatusReturnsHTTPResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"missing"}`))
	}))
	defer srv.Close()

	w := transport.New(transport.Config{HTTPClient: srv.Client()}, nil)

	resp, err := w.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if err == nil {
		t.Fatal("expected an error for 404 response")
	}
	if resp.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404 even on error", resp.Status)
	}

	var eerr *ethoserr.Error
	if !errors.As(err, &eerr) {
		t.Fatalf("expected *ethoserr.Error, got %T", err)
	}
	if eerr.Kind != ethoserr.HTTPResponse {
		t.Errorf("Kind = %v, want HTTPResponse", eerr.Kind)
	}
}

func TestDo_NoTokenSourceSkipsAuthHeader(t *testing.T) {
	var gotAuth string
	seen := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		seen = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := transport.New(transport.Config{HTTPClient: srv.Client()}, nil)

	if _, err := w.Do(context.Background(), http.MethodGet, srv.URL, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !seen {
		t.Fatal("handler never invoked")
	}
	if gotAuth != "" {
		t.Errorf("Authorization header = %q, want empty", gotAuth)
	}
}

func TestDo_BuildsClientFromTimeoutsWhenNoHTTPClientGiven(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := transport.New(transport.Config{
		ConnectTimeout: 2 * time.Second,
		RequestTimeout: 2 * time.Second,
		SocketTimeout:  2 * time.Second,
	}, nil)

	if _, err := w.Do(context.Background(), http.MethodGet, srv.URL, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
