package stats

// Energy intensity of data transfer
const (
	KWhPerGB   = 1.805
	BytesPerGB = 1073741824
)

// Visitor model used to weight a single page view
const (
	FirstTimeViewingPercentage             = 0.75
	ReturningVisitorPercentage             = 0.25
	PercentageOfDataLoadedOnSubsequentLoad = 0.02
)

// Carbon intensity in gCO2e per kWh
const (
	CarbonPerKWhGrid      = 475
	CarbonPerKWhRenewable = 33.4
)

// Split of transfer energy between the datacenter and the rest of the chain.
// Only the datacenter share benefits from green hosting.
const (
	PercentageOfEnergyInDatacenter             = 0.1008
	PercentageOfEnergyInTransmissionAndEndUser = 0.8992
)

// CO2GramsToLitres converts grams of CO2 into litres at ambient conditions
const CO2GramsToLitres = 0.5562
