package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
	"k8s.io/klog/v2"
)

// Environment variables read by ApplyEnv
const (
	EnvGreenWebPath      = "GREENWEB_PATH"
	EnvLighthousePath    = "LIGHTHOUSE_PATH"
	EnvLighthouseTimeout = "LIGHTHOUSE_TIMEOUT"
	EnvOutputFormat      = "OUTPUT_FORMAT"
	EnvDiagnostics       = "OUTPUT_DIAGNOSTICS"
)

// LoadFromEnv loads configuration from defaults and environment variables
func LoadFromEnv() (*Config, error) {
	cfg := Default()
	ApplyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return cfg, nil
}

// Load builds a configuration from defaults, the YAML file at path (if any)
// and the environment, in that order. It does not validate, so callers can
// still apply command line overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	ApplyEnv(cfg)

	klog.V(2).InfoS("Loaded configuration",
		"file", path,
		"datasetPath", cfg.GreenWeb.DatasetPath,
		"lighthousePath", cfg.Lighthouse.Path,
		"lighthouseTimeout", cfg.Lighthouse.Timeout,
		"format", cfg.Output.Format)
	return cfg, nil
}

// LoadFile reads a YAML configuration file on top of the defaults. Relative
// paths inside the file are resolved against the file's directory.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %v", path, err)
	}

	dir := filepath.Dir(path)
	cfg.GreenWeb.DatasetPath = resolvePath(dir, cfg.GreenWeb.DatasetPath)
	// a bare executable name keeps its PATH lookup
	if strings.ContainsRune(cfg.Lighthouse.Path, filepath.Separator) {
		cfg.Lighthouse.Path = resolvePath(dir, cfg.Lighthouse.Path)
	}
	return nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// ApplyEnv overrides cfg with any configuration environment variables set
func ApplyEnv(cfg *Config) {
	cfg.GreenWeb.DatasetPath = getEnvOrDefault(EnvGreenWebPath, cfg.GreenWeb.DatasetPath)
	cfg.Lighthouse.Path = getEnvOrDefault(EnvLighthousePath, cfg.Lighthouse.Path)
	cfg.Lighthouse.Timeout = getDurationOrDefault(EnvLighthouseTimeout, cfg.Lighthouse.Timeout)
	cfg.Output.Format = getEnvOrDefault(EnvOutputFormat, cfg.Output.Format)
	cfg.Output.Diagnostics = getBoolOrDefault(EnvDiagnostics, cfg.Output.Diagnostics)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if strValue := os.Getenv(key); strValue != "" {
		value, err := strconv.ParseBool(strValue)
		if err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid boolean value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if strValue := os.Getenv(key); strValue != "" {
		if value, err := time.ParseDuration(strValue); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid duration value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}
