package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/presentation/narration"
	"github.com/aretw0/cascade/pkg/adapters/redis"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/observability"
)

// createEngineOptions wires the narrator, structured logging and the optional
// event stream into one set of engine options.
func createEngineOptions(maxTransitions int, logger *slog.Logger, narrator *narration.Narrator, publisher *redis.Publisher) []cascade.Option {
	hooks := []domain.LifecycleHooks{narrator.Hooks(), observability.LogHooks(logger)}
	if publisher != nil {
		hooks = append(hooks, publisher.Hooks())
	}

	return []cascade.Option{
		cascade.WithLogger(logger),
		cascade.WithMaxTransitions(maxTransitions),
		cascade.WithLifecycleHooks(observability.Combine(hooks...)),
	}
}

// createPublisher connects the Redis event stream when an address is configured.
// An unreachable server is reported once and the run continues without it.
func createPublisher(opts RunOptions, logger *slog.Logger) (*redis.Publisher, func()) {
	if opts.RedisAddr == "" {
		return nil, func() {}
	}

	pubOpts := []redis.Option{redis.WithLogger(logger)}
	if opts.RedisStream != "" {
		pubOpts = append(pubOpts, redis.WithStream(opts.RedisStream))
	}
	pub := redis.New(opts.RedisAddr, "", 0, pubOpts...)

	if err := pub.Ping(context.Background()); err != nil {
		logger.Warn("redis unavailable, transitions will not be published", "addr", opts.RedisAddr, "err", err)
		_ = pub.Close()
		return nil, func() {}
	}
	logger.Info("publishing transitions", "addr", opts.RedisAddr, "stream", pub.Stream())
	return pub, func() { _ = pub.Close() }
}
