package redis

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/mxvel/topupmart/internal/config"
)

const requestTTL = 24 * time.Hour

// Module wires the checkout request guard. Without a redis address the
// noop guard is used and duplicate suppression is disabled.
var Module = fx.Options(
	fx.Provide(newGuard),
	fx.Invoke(registerLifecycle),
)

type guardParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newGuard(p guardParams) (Guard, error) {
	if p.Config.RedisAddress == "" {
		p.Logger.Warn("redis address not set, checkout deduplication disabled")
		return noopGuard{}, nil
	}
	return New(p.Ctx, p.Config.RedisAddress, p.Config.RedisPassword, requestTTL, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, g Guard) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if c, ok := g.(*guard); ok {
				return c.close()
			}
			return nil
		},
	})
}
