package lighthouse

import (
	"encoding/json"
	"fmt"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint/types"
)

// NetworkRequestsAudit is the audit id whose items list every fetched resource
const NetworkRequestsAudit = "network-requests"

// Report is the subset of a Lighthouse JSON report read by the analyzer
type Report struct {
	FinalURL string           `json:"finalUrl"`
	Audits   map[string]Audit `json:"audits"`
}

// Audit is one entry of the report's audits map
type Audit struct {
	ID      string        `json:"id"`
	Details *AuditDetails `json:"details"`
}

// AuditDetails carries the table rows of an audit
type AuditDetails struct {
	Items []NetworkRequest `json:"items"`
}

// NetworkRequest is one row of the network-requests audit. Sizes are
// decoded as floats since Lighthouse does not guarantee integers.
type NetworkRequest struct {
	URL          string  `json:"url"`
	MimeType     string  `json:"mimeType"`
	TransferSize float64 `json:"transferSize"`
	ResourceSize float64 `json:"resourceSize"`
}

// ParseReport reads a Lighthouse JSON report and returns the page weight
// found in its network-requests audit.
func ParseReport(data []byte) (types.ByteBreakdown, error) {
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return types.ByteBreakdown{}, fmt.Errorf("decoding report: %w", err)
	}

	audit, ok := report.Audits[NetworkRequestsAudit]
	if !ok {
		return types.ByteBreakdown{}, fmt.Errorf("report has no %q audit", NetworkRequestsAudit)
	}
	if audit.Details == nil {
		return types.ByteBreakdown{}, fmt.Errorf("audit %q has no details", NetworkRequestsAudit)
	}

	builder := types.NewBreakdownBuilder()
	for _, item := range audit.Details.Items {
		builder.Add(item.MimeType, int64(item.TransferSize), int64(item.ResourceSize))
	}
	return builder.Build(), nil
}
