package gateway

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/sembus/apigw/errors"
)

// LoadConfigJSON decodes and validates a Config from its primary on-disk
// shape, matching §3's data model field-for-field via struct tags.
func LoadConfigJSON(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.WrapInvalid(err, "gateway", "LoadConfigJSON", "unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigYAML decodes and validates a Config from a YAML manifest, for
// operators who prefer YAML over JSON for deployment tooling.
func LoadConfigYAML(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.WrapInvalid(err, "gateway", "LoadConfigYAML", "unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
