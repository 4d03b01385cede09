package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML file named by --config. Flags given on the
// command line take precedence over it.
type FileConfig struct {
	Store    string `yaml:"store"`
	Prefix   string `yaml:"prefix"`
	LogLevel string `yaml:"log_level"`
}

// LoadConfig reads a FileConfig from path.
func LoadConfig(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultStore is a bolt database under the user's home directory.
func DefaultStore() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return "bolt:" + filepath.Join(home, ".harvestkit", "prefs.db")
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if level != "" {
		l, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log_level: %w", err)
		}
		config.Level = zap.NewAtomicLevelAt(l)
	}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
