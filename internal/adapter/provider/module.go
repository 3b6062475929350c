package provider

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/mxvel/topupmart/internal/config"
	"github.com/mxvel/topupmart/internal/domain/model"
)

// Module exposes the provider registry to the fx graph. Adapters are built
// only for vendors present in the providers file.
var Module = fx.Provide(newRegistry)

type registryParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newRegistry(p registryParams) (*Registry, error) {
	var adapters []Adapter

	if creds, ok := p.Config.Providers[string(model.ProviderSmile)]; ok {
		smile, err := NewSmileAdapter(creds.BaseURL, creds.APIKey, p.Logger)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, smile)
	}

	if creds, ok := p.Config.Providers[string(model.ProviderYokcash)]; ok {
		yokcash, err := NewYokcashAdapter(creds.BaseURL, creds.APIKey, p.Logger)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, yokcash)
	}

	if len(adapters) == 0 {
		p.Logger.Warn("no fulfillment providers configured")
	}
	return NewRegistry(adapters...), nil
}
