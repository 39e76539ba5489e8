package siteconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrReadingConfigFailed = errors.New("reading site description failed")
	ErrParsingConfigFailed = errors.New("parsing site description failed")
	ErrUnknownKind         = errors.New("unknown access point kind")
	ErrUnknownType         = errors.New("unknown property type")
	ErrUnknownUnderlying   = errors.New("unknown underlying access point")
	ErrCyclicAliases       = errors.New("aliases access points form a cycle")
	ErrPostgresNotEnabled  = errors.New("postgres access points need a postgres factory")
	ErrInvalidRow          = errors.New("invalid row")
)

const (
	KindMemory   = "memory"
	KindPostgres = "postgres"
	KindAliases  = "aliases"
)

// Config is a whole site description.
type Config struct {
	AccessPoints map[string]AccessPointConfig `yaml:"access_points"`
}

// AccessPointConfig describes one named access point. Which fields apply depends on Kind.
type AccessPointConfig struct {
	Kind       string                    `yaml:"kind"`
	Properties map[string]PropertyConfig `yaml:"properties,omitempty"`
	Identity   []string                  `yaml:"identity,omitempty"`
	Rows       []map[string]any          `yaml:"rows,omitempty"`
	Table      string                    `yaml:"table,omitempty"`
	Underlying string                    `yaml:"underlying,omitempty"`
	Aliases    map[string]string         `yaml:"aliases,omitempty"`
}

// PropertyConfig describes one property of a memory or postgres access point.
type PropertyConfig struct {
	Type  string `yaml:"type"`
	Multi bool   `yaml:"multi,omitempty"`
}

// Parse decodes a YAML site description. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Join(ErrParsingConfigFailed, err)
	}

	for name, apc := range cfg.AccessPoints {
		switch apc.Kind {
		case KindMemory, KindPostgres, KindAliases:
		default:
			return Config{}, fmt.Errorf("%w: %q for access point %q", ErrUnknownKind, apc.Kind, name)
		}
	}

	return cfg, nil
}

// Load reads and parses the site description stored at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Join(ErrReadingConfigFailed, err)
	}

	return Parse(data)
}

// Marshal renders cfg back to YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
