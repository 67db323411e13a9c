// Package notify wraps the messages client as a polling.Fetcher and
// optionally rewrites a notification's content by re-reading the
// resource at a declared version override before handing it to the
// poll engine.
package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ellucian-developer/integration-sdk-go/pkg/contracts"
	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
	"github.com/rs/zerolog/log"
)

// Service fetches change-notification messages and applies per-resource
// version overrides on a best-effort basis: a failed override is
// surfaced as an error on that notification, but processing continues.
type Service struct {
	messages Messages
	reader   contracts.ProxyReader
	versions map[string]string // resource -> declared versionHeader

	mu     sync.Mutex
	lastID string // resume cursor passed as lastProcessedID on the next Consume
}

// Messages is the subset of pkg/messages.Client the service needs,
// kept as an interface so it can be faked in tests.
type Messages interface {
	Consume(ctx context.Context, limit int, lastProcessedID string) (interface{}, error)
}

// New builds a Service. versions maps a resource name to the
// media-type header version notifications for that resource should be
// rewritten to; reader performs the override's proxy read. Both may be
// nil/empty to disable rewriting entirely.
func New(messages Messages, reader contracts.ProxyReader, versions map[string]string) *Service {
	if versions == nil {
		versions = map[string]string{}
	}
	return &Service{messages: messages, reader: reader, versions: versions}
}

// Fetch implements polling.Fetcher: it consumes up to n notifications,
// resuming after the last notification ID processed by the previous
// call, and applies the version-override rewrite to each.
func (s *Service) Fetch(ctx context.Context, n int) ([]model.ChangeNotification, error) {
	s.mu.Lock()
	cursor := s.lastID
	s.mu.Unlock()

	raw, err := s.messages.Consume(ctx, n, cursor)
	if err != nil {
		return nil, err
	}

	notifications, err := decodeNotifications(raw)
	if err != nil {
		return nil, err
	}

	for i := range notifications {
		s.applyOverride(ctx, &notifications[i])
	}

	if len(notifications) > 0 {
		s.mu.Lock()
		s.lastID = notifications[len(notifications)-1].ID
		s.mu.Unlock()
	}
	return notifications, nil
}

func (s *Service) applyOverride(ctx context.Context, n *model.ChangeNotification) {
	versionHeader, declared := s.versions[n.Resource.Name]
	if !declared || s.reader == nil || versionHeader == n.Resource.Version {
		return
	}

	content, err := s.reader.ReadAt(ctx, n.Resource.Name, n.Resource.ID, versionHeader)
	if err != nil {
		n.OverrideError = ethoserr.Wrap(ethoserr.HTTPResponse, "version override proxy read failed", err)
		log.Warn().Str("resource", n.Resource.Name).Str("id", n.Resource.ID).Err(err).Msg("ethos: notification version override failed")
		return
	}
	n.Content = content
	n.Resource.Version = versionHeader
}

func decodeNotifications(raw interface{}) ([]model.ChangeNotification, error) {
	body, ok := raw.(string)
	if !ok {
		return nil, ethoserr.New(ethoserr.Decode, "messages payload was not a JSON string body")
	}
	if body == "" {
		return nil, nil
	}

	var notifications []model.ChangeNotification
	if err := json.Unmarshal([]byte(body), &notifications); err != nil {
		return nil, ethoserr.Wrap(ethoserr.Decode, "decode change notification batch", err)
	}
	return notifications, nil
}
