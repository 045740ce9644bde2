package footprint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint/clock"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/config"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/greenweb"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/lighthouse"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/stats"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/types"
)

// jsonIndent is the indentation of ToJSON output
const jsonIndent = "    "

// Calculator computes the footprint of one page at a time and keeps the
// latest successful record. Callers only ever receive copies of that record,
// so editing one does not change what the accessors report. It is not safe
// for concurrent use; build one Calculator per concurrent caller.
type Calculator struct {
	classifier greenweb.Classifier
	analyzer   lighthouse.Analyzer
	engine     *stats.Engine
	clock      clock.Clock

	current *types.MetricsRecord
	closers []io.Closer
}

// Option configures a Calculator
type Option func(*Calculator)

// WithEngine replaces the statistics engine
func WithEngine(e *stats.Engine) Option {
	return func(c *Calculator) {
		c.engine = e
	}
}

// WithClock sets the clock used for stage timing and, unless WithEngine is
// also given, for record timestamps.
func WithClock(clk clock.Clock) Option {
	return func(c *Calculator) {
		c.clock = clk
	}
}

// New creates a calculator over the given collaborators
func New(classifier greenweb.Classifier, analyzer lighthouse.Analyzer, opts ...Option) *Calculator {
	c := &Calculator{
		classifier: classifier,
		analyzer:   analyzer,
		clock:      clock.RealClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = stats.NewEngine(c.clock)
	}
	return c
}

// NewFromConfig validates cfg and builds a calculator backed by the green web
// dataset and the Lighthouse CLI. Close releases the dataset.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	dataset, err := greenweb.NewService(cfg.GreenWeb.DatasetPath)
	if err != nil {
		return nil, err
	}
	analyzer := lighthouse.NewService(cfg.Lighthouse.Path, lighthouse.WithTimeout(cfg.Lighthouse.Timeout))

	c := New(dataset, analyzer, opts...)
	c.closers = append(c.closers, dataset)
	return c, nil
}

// Close releases resources opened by NewFromConfig
func (c *Calculator) Close() error {
	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return utilerrors.NewAggregate(errs)
}

// validateURL accepts absolute http and https URLs with a host
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{URL: raw, Reason: "cannot be parsed", Cause: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{URL: raw, Reason: "scheme must be http or https"}
	}
	if u.Hostname() == "" {
		return &ValidationError{URL: raw, Reason: "missing host"}
	}
	return nil
}

// Footprint checks the hosting of rawURL, measures the page and computes its
// footprint. The previous record is dropped first, so after a failure the
// accessors report NoResultError. Errors are a *ValidationError for a bad URL
// and a *FootprintError for anything that goes wrong later. The returned
// record is a copy of the stored one.
func (c *Calculator) Footprint(ctx context.Context, rawURL string) (*types.MetricsRecord, error) {
	c.current = nil
	requestID := uuid.NewString()

	if err := validateURL(rawURL); err != nil {
		FootprintRequests.WithLabelValues(resultInvalidURL).Inc()
		klog.V(2).InfoS("Rejected url", "requestID", requestID, "url", rawURL, "err", err)
		return nil, err
	}

	klog.V(2).InfoS("Computing footprint", "requestID", requestID, "url", rawURL)
	start := c.clock.Now()

	stageStart := c.clock.Now()
	green, err := c.classifier.Check(ctx, rawURL)
	c.observeStage(StageHosting, stageStart)
	if err != nil {
		return nil, c.fail(requestID, rawURL, StageHosting, err)
	}

	stageStart = c.clock.Now()
	breakdown, err := c.analyzer.Analyze(ctx, rawURL)
	c.observeStage(StageAnalysis, stageStart)
	if err != nil {
		return nil, c.fail(requestID, rawURL, StageAnalysis, err)
	}

	stageStart = c.clock.Now()
	record, err := c.engine.Compute(rawURL, breakdown, green)
	c.observeStage(StageStatistics, stageStart)
	if err != nil {
		return nil, c.fail(requestID, rawURL, StageStatistics, err)
	}

	c.current = record
	FootprintRequests.WithLabelValues(resultSuccess).Inc()
	LastFootprint.WithLabelValues("co2_grams").Set(record.CO2Grams)
	LastFootprint.WithLabelValues("energy_kwh").Set(record.EnergyKWh)
	LastFootprint.WithLabelValues("water_litres").Set(record.WaterLitres)
	LastFootprint.WithLabelValues("transfer_bytes").Set(float64(record.TransferSizeBytes()))

	klog.InfoS("Footprint computed",
		"requestID", requestID,
		"url", rawURL,
		"green", green,
		"transferred", record.TransferSizeBytes(),
		"co2Grams", record.CO2Grams,
		"duration", c.clock.Since(start))
	return c.snapshot(), nil
}

// snapshot copies the current record. MetricsRecord holds no pointers, so
// the copy shares nothing with the stored value.
func (c *Calculator) snapshot() *types.MetricsRecord {
	r := *c.current
	return &r
}

func (c *Calculator) observeStage(stage Stage, start time.Time) {
	StageDuration.WithLabelValues(string(stage)).Observe(c.clock.Since(start).Seconds())
}

func (c *Calculator) fail(requestID, rawURL string, stage Stage, cause error) error {
	FootprintRequests.WithLabelValues(resultForStage(stage)).Inc()
	klog.ErrorS(cause, "Footprint failed", "requestID", requestID, "url", rawURL, "stage", stage)
	return &FootprintError{URL: rawURL, Stage: stage, Cause: cause}
}

// Record returns a copy of the current record
func (c *Calculator) Record() (*types.MetricsRecord, error) {
	if c.current == nil {
		return nil, &NoResultError{Field: "record"}
	}
	return c.snapshot(), nil
}

// Date returns the creation time of the current record as an ISO-8601 string
func (c *Calculator) Date() (string, error) {
	if c.current == nil {
		return "", &NoResultError{Field: "date"}
	}
	return c.current.Date(), nil
}

func (c *Calculator) URL() (string, error) {
	if c.current == nil {
		return "", &NoResultError{Field: "url"}
	}
	return c.current.URL, nil
}

func (c *Calculator) HostingGreen() (bool, error) {
	if c.current == nil {
		return false, &NoResultError{Field: "hosting_green"}
	}
	return c.current.HostingGreen, nil
}

func (c *Calculator) CO2Grams() (float64, error) {
	if c.current == nil {
		return 0, &NoResultError{Field: "co2_grams"}
	}
	return c.current.CO2Grams, nil
}

func (c *Calculator) EnergyKWh() (float64, error) {
	if c.current == nil {
		return 0, &NoResultError{Field: "energy_kWh"}
	}
	return c.current.EnergyKWh, nil
}

func (c *Calculator) WaterLitres() (float64, error) {
	if c.current == nil {
		return 0, &NoResultError{Field: "water_litres"}
	}
	return c.current.WaterLitres, nil
}

func (c *Calculator) TransferSizeBytes() (int64, error) {
	if c.current == nil {
		return 0, &NoResultError{Field: "transfer_size_bytes"}
	}
	return c.current.TransferSizeBytes(), nil
}

func (c *Calculator) ResourcesSizeBytes() (int64, error) {
	if c.current == nil {
		return 0, &NoResultError{Field: "resources_size_bytes"}
	}
	return c.current.ResourcesSizeBytes(), nil
}

// Resources returns the per-class byte breakdown of the current record
func (c *Calculator) Resources() (types.ByteBreakdown, error) {
	if c.current == nil {
		return types.ByteBreakdown{}, &NoResultError{Field: "resources"}
	}
	return c.current.Resources, nil
}

// ToMap returns the current record keyed by its serialized field names
func (c *Calculator) ToMap() (map[string]interface{}, error) {
	if c.current == nil {
		return nil, &NoResultError{Field: "record"}
	}
	r := c.current
	return map[string]interface{}{
		"date":          r.Date(),
		"url":           r.URL,
		"hosting_green": r.HostingGreen,
		"co2_grams":     r.CO2Grams,
		"energy_kWh":    r.EnergyKWh,
		"water_litres":  r.WaterLitres,
		"resources":     r.ResourcesMap(),
	}, nil
}

// ToJSON returns the current record as indented JSON
func (c *Calculator) ToJSON() ([]byte, error) {
	if c.current == nil {
		return nil, &NoResultError{Field: "record"}
	}
	return json.MarshalIndent(c.current, "", jsonIndent)
}

// ToJSONWithDiagnostics is ToJSON with an extra "diagnostics" block holding
// both CO2 paths and the adjusted byte count.
func (c *Calculator) ToJSONWithDiagnostics() ([]byte, error) {
	if c.current == nil {
		return nil, &NoResultError{Field: "record"}
	}
	return json.MarshalIndent(types.DiagnosticView{Record: c.current}, "", jsonIndent)
}
