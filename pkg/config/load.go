package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ABIDefinition is the JSON text of a contract ABI. In configuration files it
// may be written either as a JSON string or as a native YAML/JSON array.
type ABIDefinition string

// UnmarshalJSON accepts a quoted JSON document or the raw ABI array.
func (a *ABIDefinition) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = ABIDefinition(s)
		return nil
	}
	if !json.Valid(b) {
		return errors.New("abi definition is not valid json")
	}
	*a = ABIDefinition(b)
	return nil
}

// UnmarshalYAML accepts a scalar holding the JSON text or a YAML sequence that
// is re-encoded as JSON.
func (a *ABIDefinition) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*a = ABIDefinition(value.Value)
		return nil
	}
	var v any
	if err := value.Decode(&v); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("re-encode abi definition: %w", err)
	}
	*a = ABIDefinition(b)
	return nil
}

// LoadFile reads a configuration document. Files ending in .json are decoded
// as JSON, everything else as YAML. The result is not validated.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := new(Config)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, cfg)
	default:
		err = yaml.Unmarshal(raw, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays WALLETKIT_* environment variables onto c. The given dotenv
// files are loaded first; without arguments a ".env" in the working directory
// is loaded when present. Variables already in the environment win over dotenv
// values.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return fmt.Errorf("load env files: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	err := envdecode.Decode(c)
	if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		zap.L().Debug("no WALLETKIT_* variables set")
		return nil
	}
	return err
}

// Load reads path, applies the environment overlay and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
