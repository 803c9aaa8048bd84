package initialize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/stylegen/pkg/parser"
)

// ConfigBase is the config file name, without extension, read by the CLI.
const ConfigBase = "stylegen"

var (
	// ErrExists is returned when the config file is already present.
	ErrExists = errors.New("config already exists")
	// ErrFormat is returned for a config format other than yaml or toml.
	ErrFormat = errors.New("unsupported config format")
)

// ConfigName returns the config file name for format.
func ConfigName(format string) string {
	return ConfigBase + "." + format
}

// Generate writes a config file holding opts to dir, encoded as format ("yaml"
// or "toml"). An existing file is only replaced when force is set.
func Generate(dir string, opts *parser.Options, format string, force bool) (string, error) {
	if format == "" {
		format = "yaml"
	}
	path := filepath.Join(dir, ConfigName(format))
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%s: %w", path, ErrExists)
	}

	// paths in the file stay relative to it
	cfg := *opts
	cfg.InDir = ""
	if cfg.ManifestPath != "" {
		if rel, err := filepath.Rel(dir, cfg.ManifestPath); err == nil {
			cfg.ManifestPath = filepath.ToSlash(rel)
		}
	}

	data, err := encode(&cfg, format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

func encode(cfg *parser.Options, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml", "yml":
		data, err = yaml.Marshal(cfg)
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
