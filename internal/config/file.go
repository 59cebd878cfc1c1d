package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaJSON []byte

const schemaURL = "config.schema.json"

// FileConfig is the on-disk configuration. Every field is optional; unset fields keep
// their defaults. Keys use snake_case in both YAML and TOML.
type FileConfig struct {
	Database struct {
		Path string `json:"path"`
	} `json:"database"`
	HTTP struct {
		Address     string   `json:"address"`
		CORSOrigins []string `json:"cors_origins"`
	} `json:"http"`
	GRPC struct {
		Address *string `json:"address"` // pointer: "" disables the listener
	} `json:"grpc"`
	Auth struct {
		JWTSecret  string `json:"jwt_secret"`
		TokenTTL   string `json:"token_ttl"`
		BcryptCost int    `json:"bcrypt_cost"`
	} `json:"auth"`
	Log struct {
		Level  string `json:"level"`
		Format string `json:"format"`
	} `json:"log"`
}

// ReadFile decodes a YAML (.yaml, .yml) or TOML (.toml) config file and validates it
// against the embedded schema.
func ReadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var doc map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .toml)", ext)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	// Round-trip through JSON so the validator and the decoder see the same plain values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize config file: %w", err)
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	return &fc, nil
}

func validate(raw []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return err
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}

// apply overlays the fields set in fc onto cfg.
func (fc *FileConfig) apply(cfg *Config) error {
	if fc.Database.Path != "" {
		cfg.Database.Path = fc.Database.Path
	}
	if fc.HTTP.Address != "" {
		cfg.HTTP.Address = fc.HTTP.Address
	}
	if fc.HTTP.CORSOrigins != nil {
		cfg.HTTP.CORSOrigins = fc.HTTP.CORSOrigins
	}
	if fc.GRPC.Address != nil {
		cfg.GRPC.Address = *fc.GRPC.Address
	}
	if fc.Auth.JWTSecret != "" {
		cfg.Auth.JWTSecret = fc.Auth.JWTSecret
	}
	if fc.Auth.TokenTTL != "" {
		d, err := time.ParseDuration(fc.Auth.TokenTTL)
		if err != nil {
			return fmt.Errorf("auth.token_ttl: %w", err)
		}
		cfg.Auth.TokenTTL = d
	}
	if fc.Auth.BcryptCost != 0 {
		cfg.Auth.BcryptCost = fc.Auth.BcryptCost
	}
	if fc.Log.Level != "" {
		cfg.Log.Level = fc.Log.Level
	}
	if fc.Log.Format != "" {
		cfg.Log.Format = fc.Log.Format
	}
	return nil
}
