package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/anrid/intervaltree/pkg/interval"
)

const DefaultHistoryDepth = 32

type Env string

const (
	Development Env = "dev"
	Production  Env = "prod"
)

type Config struct {
	Environment  Env    `yaml:"environment"`
	Balancing    string `yaml:"balancing"`
	HistoryDepth int    `yaml:"history_depth"`
	IPEndpoints  bool   `yaml:"ip_endpoints"`
	Color        bool   `yaml:"color"`
	StopOnError  bool   `yaml:"stop_on_error"`
}

func Default() Config {
	return Config{
		Environment:  Development,
		Balancing:    interval.RedBlack.String(),
		HistoryDepth: DefaultHistoryDepth,
		Color:        true,
	}
}

// Load reads a YAML file on top of the defaults. An empty path or a missing
// file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "could not read config file: %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "could not parse config file: %s", path)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := interval.ParseBalancing(c.Balancing); err != nil {
		return err
	}
	switch c.Environment {
	case Development, Production:
	default:
		return errors.Errorf("unknown environment %q", c.Environment)
	}
	if c.HistoryDepth < 0 {
		return errors.Errorf("history_depth must not be negative, got %d", c.HistoryDepth)
	}
	return nil
}

// BalancingPolicy returns the parsed balancing, RedBlack when unset.
func (c Config) BalancingPolicy() interval.Balancing {
	b, _ := interval.ParseBalancing(c.Balancing)
	return b
}
