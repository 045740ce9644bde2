package lighthouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint/types"
)

const sampleReport = `{
  "lighthouseVersion": "11.4.0",
  "finalUrl": "https://example.com/",
  "audits": {
    "network-requests": {
      "id": "network-requests",
      "title": "Network Requests",
      "details": {
        "type": "table",
        "items": [
          {"url": "https://example.com/", "mimeType": "text/html", "transferSize": 14200, "resourceSize": 52000},
          {"url": "https://example.com/site.css", "mimeType": "text/css", "transferSize": 3100, "resourceSize": 12000},
          {"url": "https://example.com/app.js", "mimeType": "application/javascript", "transferSize": 88000.0, "resourceSize": 301000},
          {"url": "https://example.com/hero.webp", "mimeType": "image/webp", "transferSize": 120000, "resourceSize": 120000},
          {"url": "https://example.com/inter.woff2", "mimeType": "font/woff2", "transferSize": 0, "resourceSize": 48000},
          {"url": "https://example.com/api", "mimeType": "application/json", "transferSize": 900, "resourceSize": 2500},
          {"url": "data:image/png;base64,AAAA", "mimeType": "image/png", "transferSize": -1, "resourceSize": 0},
          {"url": "https://example.com/beacon", "transferSize": 300}
        ]
      }
    }
  }
}`

func TestParseReport(t *testing.T) {
	b, err := ParseReport([]byte(sampleReport))
	require.NoError(t, err)
	require.NoError(t, b.Validate())

	assert.Equal(t, int64(226500), b.TransferTotal())
	assert.Equal(t, int64(535500), b.ResourceTotal())

	assert.Equal(t, int64(14200), b.Transfer(types.ClassHTML))
	assert.Equal(t, int64(3100), b.Transfer(types.ClassCSS))
	assert.Equal(t, int64(88000), b.Transfer(types.ClassJavaScript))
	assert.Equal(t, int64(120000), b.Transfer(types.ClassImage))
	assert.Equal(t, int64(0), b.Transfer(types.ClassFont))
	assert.Equal(t, int64(48000), b.Resource(types.ClassFont))
	assert.Equal(t, int64(1200), b.Transfer(types.ClassOther))
}

func TestParseReportErrors(t *testing.T) {
	tests := []struct {
		name   string
		report string
	}{
		{name: "not json", report: "Runtime error encountered: Chrome prevented page load"},
		{name: "missing audit", report: `{"audits": {"speed-index": {"id": "speed-index"}}}`},
		{name: "audit without details", report: `{"audits": {"network-requests": {"id": "network-requests"}}}`},
		{name: "wrong item shape", report: `{"audits": {"network-requests": {"details": {"items": {"a": 1}}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReport([]byte(tt.report))
			assert.Error(t, err)
		})
	}
}

func TestParseReportNoItems(t *testing.T) {
	b, err := ParseReport([]byte(`{"audits": {"network-requests": {"details": {"items": []}}}}`))
	require.NoError(t, err)
	assert.Equal(t, types.ByteBreakdown{}, b)
}
