package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint/clock"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/types"
)

var testTime = time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)

func pageOf(transferred int64) types.ByteBreakdown {
	return types.NewBreakdownBuilder().Add("text/html", transferred, transferred).Build()
}

func TestAdjustedBytes(t *testing.T) {
	tests := []struct {
		name        string
		transferred int64
		want        int64
	}{
		{name: "empty page", transferred: 0, want: 0},
		{name: "single byte floors to zero", transferred: 1, want: 0},
		{name: "hundred bytes", transferred: 100, want: 75},
		{name: "thousand bytes", transferred: 1000, want: 755},
		{name: "one gigabyte decimal", transferred: 1_000_000_000, want: 755_000_000},
		{name: "one gibibyte", transferred: BytesPerGB, want: 810_675_077},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustedBytes(tt.transferred))
		})
	}
}

func TestEnergyConversions(t *testing.T) {
	assert.InDelta(t, KWhPerGB, EnergyKWh(BytesPerGB), 1e-12)
	assert.Equal(t, 0.0, EnergyKWh(0))

	assert.InDelta(t, 475.0, CO2Grid(1), 1e-9)
	assert.InDelta(t, 430.48672, CO2Renewable(1), 1e-9)
	assert.InDelta(t, 264.195, Litres(475), 1e-9)
}

func TestEnergyNeverDecreasesWithTransfer(t *testing.T) {
	// Values straddle the points where the floored adjusted size steps up.
	transfers := []int64{
		0, 1, 2, 3, 4, 132, 133, 134, 135, 999, 1000, 1001,
		999_999, 1_000_000, 1_000_001,
		BytesPerGB - 1, BytesPerGB, BytesPerGB + 1,
		1_000_000_000_000,
	}

	for i := 1; i < len(transfers); i++ {
		prev, cur := transfers[i-1], transfers[i]
		require.Less(t, prev, cur)

		assert.GreaterOrEqual(t, AdjustedBytes(cur), AdjustedBytes(prev), "adjusted bytes at T=%d", cur)

		prevEnergy, curEnergy := EnergyKWh(AdjustedBytes(prev)), EnergyKWh(AdjustedBytes(cur))
		assert.GreaterOrEqual(t, curEnergy, prevEnergy, "energy at T=%d", cur)
		assert.GreaterOrEqual(t, CO2Grid(curEnergy), CO2Grid(prevEnergy), "grid CO2 at T=%d", cur)
		assert.GreaterOrEqual(t, CO2Renewable(curEnergy), CO2Renewable(prevEnergy), "renewable CO2 at T=%d", cur)
	}
}

func TestComputeZeroBytes(t *testing.T) {
	e := NewEngine(clock.NewFixedClock(testTime))

	for _, green := range []bool{false, true} {
		rec, err := e.Compute("https://example.com", types.ByteBreakdown{}, green)
		require.NoError(t, err)
		assert.Equal(t, int64(0), rec.AdjustedBytes)
		assert.Equal(t, 0.0, rec.EnergyKWh)
		assert.Equal(t, 0.0, rec.CO2Grams)
		assert.Equal(t, 0.0, rec.WaterLitres)
		assert.Equal(t, green, rec.HostingGreen)
	}
}

func TestComputePathSelection(t *testing.T) {
	e := NewEngine(clock.NewFixedClock(testTime))
	page := pageOf(2_500_000)

	grey, err := e.Compute("https://example.com", page, false)
	require.NoError(t, err)
	green, err := e.Compute("https://example.com", page, true)
	require.NoError(t, err)

	assert.Equal(t, grey.EnergyKWh, green.EnergyKWh)
	assert.Equal(t, grey.Grid, green.Grid)
	assert.Equal(t, grey.Renewable, green.Renewable)

	assert.Equal(t, grey.Grid.CO2Grams, grey.CO2Grams)
	assert.Equal(t, grey.Grid.WaterLitres, grey.WaterLitres)
	assert.Equal(t, green.Renewable.CO2Grams, green.CO2Grams)
	assert.Equal(t, green.Renewable.WaterLitres, green.WaterLitres)

	assert.Less(t, green.CO2Grams, grey.CO2Grams)
	assert.InDelta(t, grey.EnergyKWh*CarbonPerKWhGrid, grey.CO2Grams, 1e-12)
	assert.InDelta(t, grey.CO2Grams*CO2GramsToLitres, grey.WaterLitres, 1e-12)
	assert.InDelta(t, green.CO2Grams*CO2GramsToLitres, green.WaterLitres, 1e-12)
}

func TestComputeRecordFields(t *testing.T) {
	e := NewEngine(clock.NewFixedClock(testTime))
	page := types.NewBreakdownBuilder().
		Add("text/html", 600_000, 1_200_000).
		Add("image/jpeg", 400_000, 400_000).
		Build()

	rec, err := e.Compute("https://example.com", page, false)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", rec.URL)
	assert.Equal(t, testTime, rec.CreatedAt)
	assert.Equal(t, int64(755_000), rec.AdjustedBytes)
	assert.InDelta(t, 755_000*KWhPerGB/BytesPerGB, rec.EnergyKWh, 1e-15)
	assert.Equal(t, page, rec.Resources)
	assert.Equal(t, int64(1_000_000), rec.TransferSizeBytes())
	assert.Equal(t, int64(1_600_000), rec.ResourcesSizeBytes())
}

func TestComputeIsDeterministic(t *testing.T) {
	e := NewEngine(clock.NewFixedClock(testTime))
	page := pageOf(123_456)

	first, err := e.Compute("https://example.com", page, true)
	require.NoError(t, err)
	second, err := e.Compute("https://example.com", page, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeInvalidBreakdown(t *testing.T) {
	e := NewEngine(nil)
	bad := types.NewByteBreakdown(map[types.ContentClass]int64{types.ClassImage: -5}, nil)

	rec, err := e.Compute("https://example.com", bad, false)
	assert.Error(t, err)
	assert.Nil(t, rec)
}
