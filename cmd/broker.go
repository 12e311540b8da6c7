package cmd

import (
	"context"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/a38062an/Atomic-Resource-Broker/internal/application/coordinator"
	"github.com/a38062an/Atomic-Resource-Broker/internal/config"
	"github.com/a38062an/Atomic-Resource-Broker/internal/infrastructure/apiclient"
	"github.com/a38062an/Atomic-Resource-Broker/internal/pacer"
)

// setup wires a coordinator against the live services from config.
// The returned context ends on interrupt; a paced operation can take a
// while at one request per second, and aborting between calls is the
// only supported cancellation point.
func setup() (context.Context, context.CancelFunc, *coordinator.Coordinator, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	log, err := buildLogger(cfg.DevMode)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	hotel := apiclient.New("hotel", cfg.Hotel.URL, cfg.Hotel.Key, cfg.Retries, cfg.Delay, log)
	band := apiclient.New("band", cfg.Band.URL, cfg.Band.Key, cfg.Retries, cfg.Delay, log)
	co := coordinator.New(hotel, band, pacer.New(cfg.RequestInterval), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	return ctx, stop, co, log, nil
}

func buildLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
