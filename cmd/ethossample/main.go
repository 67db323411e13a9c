// ethossample is a minimal driver for the integration SDK: it mints a
// token, resolves the latest version of a resource, and subscribes to
// change notifications until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ellucian-developer/integration-sdk-go/pkg/contracts"
	"github.com/ellucian-developer/integration-sdk-go/pkg/ethos"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	apiKey := os.Getenv("ETHOS_API_KEY")
	if apiKey == "" {
		log.Fatal().Msg("ETHOS_API_KEY must be set")
	}

	client, err := ethos.New(apiKey, ethos.WithRegion(ethos.RegionUS))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build ethos client")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer client.Close(ctx)

	latest, err := client.Versions.GetLatestVersion(ctx, "persons")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve latest version")
	}
	log.Info().Str("resource", "persons").Str("version", latest).Msg("resolved latest version")

	latestHeader, err := client.Versions.GetLatestVersionHeader(ctx, "persons")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve latest version header")
	}

	notifications := client.NotificationService(map[string]string{
		"persons": latestHeader,
	})
	publisher := client.PerItemSubscriptions(notifications)

	sub, err := publisher.Subscribe(ctx, itemHandler{}, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	publisher.Unsubscribe(sub)
	sub.Wait()
}

type itemHandler struct{}

func (itemHandler) OnNext(ctx context.Context, n model.ChangeNotification) error {
	log.Info().Str("id", n.ID).Str("resource", n.Resource.Name).Msg("notification received")
	return nil
}

func (itemHandler) OnError(ctx context.Context, err error) {
	log.Warn().Err(err).Msg("subscription error")
}

func (itemHandler) OnComplete(ctx context.Context) {
	log.Info().Msg("subscription complete")
}

var _ contracts.ItemSubscriber = itemHandler{}
