package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Embedded default snapshot so the service works out of the box without a
// catalog file.
//
//go:embed snapshot.json
var defaultSnapshot []byte

// LoadFile reads and validates a catalog snapshot from a JSON or YAML file.
// The format is chosen by file extension; anything that is not .yaml/.yml is
// parsed as JSON. Validation warnings (unknown declared dependencies) are
// logged at Warn and do not fail the load.
func LoadFile(path string, logger *zap.Logger) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog snapshot: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return parse(data, ext == ".yaml" || ext == ".yml", logger)
}

// Default returns the embedded default snapshot.
func Default(logger *zap.Logger) (*Snapshot, error) {
	return parse(defaultSnapshot, false, logger)
}

// Load returns the snapshot at path, or the embedded default when path is
// empty.
func Load(path string, logger *zap.Logger) (*Snapshot, error) {
	if path == "" {
		return Default(logger)
	}
	return LoadFile(path, logger)
}

func parse(data []byte, isYAML bool, logger *zap.Logger) (*Snapshot, error) {
	var snap Snapshot
	if isYAML {
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse catalog snapshot: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse catalog snapshot: %w", err)
		}
	}

	warnings, err := snap.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate catalog snapshot: %w", err)
	}
	if logger != nil {
		for _, w := range warnings {
			logger.Warn("catalog data-integrity warning", zap.String("detail", w))
		}
	}

	return &snap, nil
}
