package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvGreenWebPath, EnvLighthousePath, EnvLighthouseTimeout, EnvOutputFormat, EnvDiagnostics} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "carbon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name:    "dataset path missing",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name: "dataset only",
			env:  map[string]string{EnvGreenWebPath: "/data/green_urls.db"},
			want: &Config{
				GreenWeb:   GreenWebConfig{DatasetPath: "/data/green_urls.db"},
				Lighthouse: LighthouseConfig{Path: "lighthouse", Timeout: 2 * time.Minute},
				Output:     OutputConfig{Format: FormatJSON},
			},
		},
		{
			name: "everything set",
			env: map[string]string{
				EnvGreenWebPath:      "/data/green_urls.db",
				EnvLighthousePath:    "/usr/bin/lighthouse",
				EnvLighthouseTimeout: "45s",
				EnvOutputFormat:      "summary",
				EnvDiagnostics:       "true",
			},
			want: &Config{
				GreenWeb:   GreenWebConfig{DatasetPath: "/data/green_urls.db"},
				Lighthouse: LighthouseConfig{Path: "/usr/bin/lighthouse", Timeout: 45 * time.Second},
				Output:     OutputConfig{Format: FormatSummary, Diagnostics: true},
			},
		},
		{
			name: "unparseable values fall back",
			env: map[string]string{
				EnvGreenWebPath:      "/data/green_urls.db",
				EnvLighthouseTimeout: "soon",
				EnvDiagnostics:       "maybe",
			},
			want: &Config{
				GreenWeb:   GreenWebConfig{DatasetPath: "/data/green_urls.db"},
				Lighthouse: LighthouseConfig{Path: "lighthouse", Timeout: 2 * time.Minute},
				Output:     OutputConfig{Format: FormatJSON},
			},
		},
		{
			name: "bad format",
			env: map[string]string{
				EnvGreenWebPath: "/data/green_urls.db",
				EnvOutputFormat: "xml",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadFromEnv()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoadFileResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
greenWeb:
  datasetPath: data/green_urls.db
lighthouse:
  path: node_modules/.bin/lighthouse
  timeout: 90s
output:
  format: summary
  diagnostics: true
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "green_urls.db"), cfg.GreenWeb.DatasetPath)
	assert.Equal(t, filepath.Join(dir, "node_modules", ".bin", "lighthouse"), cfg.Lighthouse.Path)
	assert.Equal(t, 90*time.Second, cfg.Lighthouse.Timeout)
	assert.Equal(t, FormatSummary, cfg.Output.Format)
	assert.True(t, cfg.Output.Diagnostics)
}

func TestLoadFileKeepsBareAndAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
greenWeb:
  datasetPath: /srv/green_urls.db
lighthouse:
  path: lighthouse
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/green_urls.db", cfg.GreenWeb.DatasetPath)
	assert.Equal(t, "lighthouse", cfg.Lighthouse.Path)
	assert.Equal(t, 2*time.Minute, cfg.Lighthouse.Timeout)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeConfig(t, dir, "greenWeb: [not, a, map]\n"))
	assert.Error(t, err)

	_, err = LoadFile(writeConfig(t, dir, "greenweb:\n  datasetPath: typo.db\n"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, `
greenWeb:
  datasetPath: /from/file.db
lighthouse:
  timeout: 30s
`)
	t.Setenv(EnvGreenWebPath, "/from/env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.GreenWeb.DatasetPath)
	assert.Equal(t, 30*time.Second, cfg.Lighthouse.Timeout)
	assert.Equal(t, "lighthouse", cfg.Lighthouse.Path)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.GreenWeb.DatasetPath)
}
