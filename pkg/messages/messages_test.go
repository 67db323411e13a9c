package messages_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
	"github.com/ellucian-developer/integration-sdk-go/pkg/messages"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
)

type fakeTransport struct {
	lastMethod string
	lastURL    string
	resp       model.Response
	err        error
}

func (f *fakeTransport) Do(ctx context.Context, method, url string, headers http.Header, body []byte) (model.Response, error) {
	f.lastMethod, f.lastURL = method, url
	return f.resp, f.err
}

func TestAvailableCount(t *testing.T) {
	tr := &fakeTransport{resp: model.Response{Status: 200, Header: map[string]string{"x-remaining": "17"}}}
	c := messages.New(tr, "https://x/consume")

	n, err := c.AvailableCount(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 17 {
		t.Errorf("AvailableCount = %d, want 17", n)
	}
	if tr.lastMethod != http.MethodHead {
		t.Errorf("expected HEAD, got %s", tr.lastMethod)
	}
}

func TestConsume_ValidatesLimit(t *testing.T) {
	c := messages.New(&fakeTransport{}, "https://x/consume")
	if _, err := c.Consume(context.Background(), 0, ""); err == nil {
		t.Error("expected error for limit=0")
	}
	if _, err := c.Consume(context.Background(), 1001, ""); err == nil {
		t.Error("expected error for limit=1001")
	}
	var ethosErr *ethoserr.Error
	_, err := c.Consume(context.Background(), 0, "")
	if as, ok := err.(*ethoserr.Error); ok {
		ethosErr = as
	}
	if ethosErr == nil || ethosErr.Kind != ethoserr.InvalidArgument {
		t.Errorf("expected InvalidArgument error, got %v", err)
	}
}

func TestConsume_BuildsLimitQuery(t *testing.T) {
	tr := &fakeTransport{resp: model.Response{Status: 200, Body: "[]"}}
	c := messages.New(tr, "https://x/consume")
	if _, err := c.Consume(context.Background(), 25, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "https://x/consume?limit=25"; tr.lastURL != want {
		t.Errorf("Consume built URL %q, want %q", tr.lastURL, want)
	}
}

func TestConsume_AppendsLastProcessedIDWhenGiven(t *testing.T) {
	tr := &fakeTransport{resp: model.Response{Status: 200, Body: "[]"}}
	c := messages.New(tr, "https://x/consume")
	if _, err := c.Consume(context.Background(), 25, "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "https://x/consume?limit=25&lastProcessedID=42"; tr.lastURL != want {
		t.Errorf("Consume built URL %q, want %q", tr.lastURL, want)
	}
}
