package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout renders CreatedAt as ISO-8601 with a numeric UTC offset
const DateLayout = "2006-01-02T15:04:05.000000-07:00"

// PathResult holds the CO2 figures for one hosting assumption
type PathResult struct {
	CO2Grams    float64 `json:"co2_grams"`
	WaterLitres float64 `json:"water_litres"`
}

// MetricsRecord is the outcome of one footprint computation. It is built once
// by the statistics engine and never modified afterwards.
type MetricsRecord struct {
	URL          string
	CreatedAt    time.Time
	HostingGreen bool

	// Usage-weighted bytes per page view
	AdjustedBytes int64
	EnergyKWh     float64

	// Figures for the selected path (renewable when HostingGreen)
	CO2Grams    float64
	WaterLitres float64

	// Both paths are kept for inspection
	Grid      PathResult
	Renewable PathResult

	Resources ByteBreakdown
}

// TransferSizeBytes returns the total bytes transferred for the page
func (r *MetricsRecord) TransferSizeBytes() int64 {
	return r.Resources.TransferTotal()
}

// ResourcesSizeBytes returns the total decoded bytes for the page
func (r *MetricsRecord) ResourcesSizeBytes() int64 {
	return r.Resources.ResourceTotal()
}

// Date returns CreatedAt formatted with DateLayout
func (r *MetricsRecord) Date() string {
	return r.CreatedAt.UTC().Format(DateLayout)
}

// Diagnostics is the optional detail block emitted next to a record
type Diagnostics struct {
	AdjustedBytes int64      `json:"adjusted_bytes"`
	Grid          PathResult `json:"grid"`
	Renewable     PathResult `json:"renewable"`
}

// Diagnostics returns the intermediate values of the computation
func (r *MetricsRecord) Diagnostics() Diagnostics {
	return Diagnostics{
		AdjustedBytes: r.AdjustedBytes,
		Grid:          r.Grid,
		Renewable:     r.Renewable,
	}
}

type recordJSON struct {
	Date         string        `json:"date"`
	URL          string        `json:"url"`
	HostingGreen bool          `json:"hosting_green"`
	CO2Grams     float64       `json:"co2_grams"`
	EnergyKWh    float64       `json:"energy_kWh"`
	WaterLitres  float64       `json:"water_litres"`
	Resources    resourcesJSON `json:"resources"`
}

type resourcesJSON struct {
	TransferSizeBytes  map[string]int64 `json:"transfer_size_bytes"`
	ResourcesSizeBytes map[string]int64 `json:"resources_size_bytes"`
}

const (
	keyTotal         = "total"
	keyTotalWeighted = "total_weighted"
)

func (r *MetricsRecord) resourcesJSON() resourcesJSON {
	transfer := make(map[string]int64, len(ContentClasses)+2)
	resource := make(map[string]int64, len(ContentClasses)+1)
	transfer[keyTotal] = r.Resources.TransferTotal()
	transfer[keyTotalWeighted] = r.AdjustedBytes
	resource[keyTotal] = r.Resources.ResourceTotal()
	for i, class := range ContentClasses {
		transfer[string(class)] = r.Resources.transfer[i]
		resource[string(class)] = r.Resources.resource[i]
	}
	return resourcesJSON{
		TransferSizeBytes:  transfer,
		ResourcesSizeBytes: resource,
	}
}

// ResourcesMap returns the breakdown in its serialized shape
func (r *MetricsRecord) ResourcesMap() map[string]map[string]int64 {
	res := r.resourcesJSON()
	return map[string]map[string]int64{
		"transfer_size_bytes":  res.TransferSizeBytes,
		"resources_size_bytes": res.ResourcesSizeBytes,
	}
}

func (r *MetricsRecord) wire() recordJSON {
	return recordJSON{
		Date:         r.Date(),
		URL:          r.URL,
		HostingGreen: r.HostingGreen,
		CO2Grams:     r.CO2Grams,
		EnergyKWh:    r.EnergyKWh,
		WaterLitres:  r.WaterLitres,
		Resources:    r.resourcesJSON(),
	}
}

// MarshalJSON implements json.Marshaler using the fixed interchange format
func (r *MetricsRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// DiagnosticView serializes a record followed by a "diagnostics" block
type DiagnosticView struct {
	Record *MetricsRecord
}

func (v DiagnosticView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		recordJSON
		Diagnostics Diagnostics `json:"diagnostics"`
	}{
		recordJSON:  v.Record.wire(),
		Diagnostics: v.Record.Diagnostics(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. Only the interchange fields are
// restored; Grid and Renewable are not part of the format and stay zero.
func (r *MetricsRecord) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, in.Date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", in.Date, err)
	}

	var b ByteBreakdown
	for i, class := range ContentClasses {
		b.transfer[i] = in.Resources.TransferSizeBytes[string(class)]
		b.resource[i] = in.Resources.ResourcesSizeBytes[string(class)]
	}
	b.transferTotal = in.Resources.TransferSizeBytes[keyTotal]
	b.resourceTotal = in.Resources.ResourcesSizeBytes[keyTotal]

	*r = MetricsRecord{
		URL:           in.URL,
		CreatedAt:     createdAt.UTC(),
		HostingGreen:  in.HostingGreen,
		AdjustedBytes: in.Resources.TransferSizeBytes[keyTotalWeighted],
		EnergyKWh:     in.EnergyKWh,
		CO2Grams:      in.CO2Grams,
		WaterLitres:   in.WaterLitres,
		Resources:     b,
	}
	return nil
}
