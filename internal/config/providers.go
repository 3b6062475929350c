package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ProviderCredentials describes how to reach one fulfillment vendor.
type ProviderCredentials struct {
	BaseURL string `yaml:"BaseURL"`
	APIKey  string `yaml:"ApiKey"`
	Secret  string `yaml:"Secret"`
}

type providersFile struct {
	Providers map[string]ProviderCredentials `yaml:"Providers"`
}

func readProviders(path string, readFile fileReader) (map[string]ProviderCredentials, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	var pf providersFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parse providers file: %w", err)
	}

	for name, creds := range pf.Providers {
		if creds.BaseURL == "" {
			return nil, fmt.Errorf("provider %s: BaseURL must be set", name)
		}
	}

	return pf.Providers, nil
}
