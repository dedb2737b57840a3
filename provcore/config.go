package provcore

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Config holds the framework configuration: the default property query and
// the ordered provider activation list.
//
// Supply this to Configure(), or alternatively use ConfigureFromFile().
type Config struct {
	// DefaultProperties is the property query applied to all algorithm
	// fetches in the configured context.
	DefaultProperties string `json:"DefaultProperties" yaml:"default_properties"`

	// Providers lists providers in activation order.
	Providers []ProviderConfig `json:"Providers" yaml:"providers"`
}

// ProviderConfig describes one provider activation entry.
type ProviderConfig struct {
	// Name of a registered provider loader
	Name string `json:"Name" yaml:"name"`

	// Activate controls whether the provider is loaded
	Activate bool `json:"Activate" yaml:"activate"`
}

// LoadConfig loads framework configuration from a JSON or YAML file.
func LoadConfig(filename string) (*Config, error) {
	cfr, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer cfr.Close()

	cfg := new(Config)
	if strings.HasSuffix(filename, ".json") {
		err = json.NewDecoder(cfr).Decode(cfg)
	} else {
		err = yaml.NewDecoder(cfr).Decode(cfg)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "unable to decode config: %s", filename)
	}
	return cfg, nil
}

// Configure applies the configuration to the context: sets the default
// property query and loads the providers marked for activation, in order.
func (lc *LibCtx) Configure(cfg *Config) error {
	if cfg.DefaultProperties != "" {
		if err := lc.SetDefaultProperties(cfg.DefaultProperties); err != nil {
			return err
		}
	}
	for _, pc := range cfg.Providers {
		if !pc.Activate {
			continue
		}
		if _, err := lc.LoadProvider(pc.Name); err != nil {
			return err
		}
	}
	return nil
}

// ConfigureFromFile loads configuration from a file and applies it.
func (lc *LibCtx) ConfigureFromFile(filename string) error {
	cfg, err := LoadConfig(filename)
	if err != nil {
		return err
	}
	return lc.Configure(cfg)
}
