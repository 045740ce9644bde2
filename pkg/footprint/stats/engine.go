package stats

import (
	"fmt"
	"math"

	"k8s.io/klog/v2"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint/clock"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/types"
)

// Engine derives energy, CO2 and water figures from a page weight
type Engine struct {
	clock clock.Clock
}

// NewEngine creates an engine stamping records with c. A nil clock means the
// wall clock.
func NewEngine(c clock.Clock) *Engine {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Engine{clock: c}
}

// AdjustedBytes weights the transferred bytes of one page view by the
// share of first-time and returning visitors.
func AdjustedBytes(transferred int64) int64 {
	t := float64(transferred)
	firstVisit := t * FirstTimeViewingPercentage
	returningVisit := t * ReturningVisitorPercentage * PercentageOfDataLoadedOnSubsequentLoad
	return int64(math.Floor(firstVisit + returningVisit))
}

// EnergyKWh converts bytes into kWh
func EnergyKWh(bytes int64) float64 {
	return float64(bytes) * (KWhPerGB / BytesPerGB)
}

// CO2Grid returns grams of CO2 for energy drawn entirely from the grid
func CO2Grid(kwh float64) float64 {
	return kwh * CarbonPerKWhGrid
}

// CO2Renewable returns grams of CO2 when the datacenter share of the energy
// is renewable and the rest comes from the grid.
func CO2Renewable(kwh float64) float64 {
	datacenter := kwh * PercentageOfEnergyInDatacenter * CarbonPerKWhRenewable
	rest := kwh * PercentageOfEnergyInTransmissionAndEndUser * CarbonPerKWhGrid
	return datacenter + rest
}

// Litres converts grams of CO2 into litres
func Litres(co2Grams float64) float64 {
	return co2Grams * CO2GramsToLitres
}

// Compute builds the record for one page. The only failure is an inconsistent
// breakdown; an empty page yields an all-zero record.
func (e *Engine) Compute(url string, breakdown types.ByteBreakdown, isGreen bool) (*types.MetricsRecord, error) {
	if err := breakdown.Validate(); err != nil {
		return nil, fmt.Errorf("invalid byte breakdown: %w", err)
	}

	adjusted := AdjustedBytes(breakdown.TransferTotal())
	energy := EnergyKWh(adjusted)

	gridCO2 := CO2Grid(energy)
	renewableCO2 := CO2Renewable(energy)
	grid := types.PathResult{CO2Grams: gridCO2, WaterLitres: Litres(gridCO2)}
	renewable := types.PathResult{CO2Grams: renewableCO2, WaterLitres: Litres(renewableCO2)}

	selected := grid
	if isGreen {
		selected = renewable
	}

	klog.V(4).InfoS("Computed footprint statistics",
		"url", url,
		"transferred", breakdown.TransferTotal(),
		"adjusted", adjusted,
		"energyKWh", energy,
		"green", isGreen,
		"co2Grams", selected.CO2Grams)

	return &types.MetricsRecord{
		URL:           url,
		CreatedAt:     e.clock.Now().UTC(),
		HostingGreen:  isGreen,
		AdjustedBytes: adjusted,
		EnergyKWh:     energy,
		CO2Grams:      selected.CO2Grams,
		WaterLitres:   selected.WaterLitres,
		Grid:          grid,
		Renewable:     renewable,
		Resources:     breakdown,
	}, nil
}
