package notify_test

import (
	"context"
	"testing"

	"github.com/ellucian-developer/integration-sdk-go/pkg/notify"
)

type fakeMessages struct {
	body           string
	err            error
	lastCursorSeen string
}

func (f *fakeMessages) Consume(ctx context.Context, limit int, lastProcessedID string) (interface{}, error) {
	f.lastCursorSeen = lastProcessedID
	return f.body, f.err
}

type fakeReader struct {
	content interface{}
	err     error
	calls   int
}

func (f *fakeReader) ReadAt(ctx context.Context, resource, id, versionHeader string) (interface{}, error) {
	f.calls++
	return f.content, f.err
}

func TestFetch_DecodesNotifications(t *testing.T) {
	messages := &fakeMessages{body: `[{"id":"1","resource":{"resource":"persons","id":"42","version":"v8"}}]`}
	svc := notify.New(messages, nil, nil)

	got, err := svc.Fetch(context.Background(), 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Resource.Name != "persons" {
		t.Errorf("Fetch returned %+v", got)
	}
}

func TestFetch_AdvancesCursorAcrossCalls(t *testing.T) {
	messages := &fakeMessages{body: `[{"id":"1","resource":{"resource":"persons","id":"42","version":"v8"}},{"id":"2","resource":{"resource":"persons","id":"43","version":"v8"}}]`}
	svc := notify.New(messages, nil, nil)

	if _, err := svc.Fetch(context.Background(), 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if messages.lastCursorSeen != "" {
		t.Errorf("first Fetch should consume with no cursor, got %q", messages.lastCursorSeen)
	}

	if _, err := svc.Fetch(context.Background(), 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if messages.lastCursorSeen != "2" {
		t.Errorf("second Fetch should resume after the last notification ID, got %q", messages.lastCursorSeen)
	}
}

func TestFetch_EmptyBodyIsEmptyBatch(t *testing.T) {
	svc := notify.New(&fakeMessages{body: ""}, nil, nil)
	got, err := svc.Fetch(context.Background(), 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty batch, got %+v", got)
	}
}

func TestFetch_AppliesVersionOverride(t *testing.T) {
	messages := &fakeMessages{body: `[{"id":"1","resource":{"resource":"persons","id":"42","version":"v8"}}]`}
	reader := &fakeReader{content: map[string]interface{}{"name": "Jane"}}
	svc := notify.New(messages, reader, map[string]string{"persons": "v12"})

	got, err := svc.Fetch(context.Background(), 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Resource.Version != "v12" {
		t.Errorf("expected version override to v12, got %q", got[0].Resource.Version)
	}
	if reader.calls != 1 {
		t.Errorf("expected exactly one proxy read, got %d", reader.calls)
	}
	if got[0].OverrideError != nil {
		t.Errorf("expected no override error, got %v", got[0].OverrideError)
	}
}

func TestFetch_OverrideFailureIsRecordedNotFatal(t *testing.T) {
	messages := &fakeMessages{body: `[{"id":"1","resource":{"resource":"persons","id":"42","version":"v8"}}]`}
	reader := &fakeReader{err: errBoom{}}
	svc := notify.New(messages, reader, map[string]string{"persons": "v12"})

	got, err := svc.Fetch(context.Background(), 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].OverrideError == nil {
		t.Error("expected OverrideError to be set")
	}
	if got[0].Resource.Version != "v8" {
		t.Errorf("expected version to remain unchanged on override failure, got %q", got[0].Resource.Version)
	}
}

func TestFetch_SkipsOverrideWhenAlreadyMatching(t *testing.T) {
	messages := &fakeMessages{body: `[{"id":"1","resource":{"resource":"persons","id":"42","version":"v12"}}]`}
	reader := &fakeReader{content: "unused"}
	svc := notify.New(messages, reader, map[string]string{"persons": "v12"})

	if _, err := svc.Fetch(context.Background(), 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.calls != 0 {
		t.Errorf("expected no proxy read when already at declared version, got %d calls", reader.calls)
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
