package correlation

import (
	"MarketPulse/internal/domain/models"
)

// sectorImpact is one predicted sector move for an event type.
type sectorImpact struct {
	Sectors     []string
	Direction   models.Direction
	TimeHorizon models.TimeHorizon
	Confidence  float64
	Reasoning   string
}

// eventPatterns maps incident types to their historically observed sector
// impacts. Sector names reference the static sector table where they exist;
// names without a mapping still contribute reasoning but resolve to no
// symbols.
var eventPatterns = map[models.IncidentType][]sectorImpact{
	models.IncidentPandemic: {
		{
			Sectors:     []string{"Remote Work", "Cloud Services", "E-commerce", "Streaming Media"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonShortTerm,
			Confidence:  0.85,
			Reasoning:   "COVID-19 pattern: Remote work adoption accelerates 5-10 years overnight",
		},
		{
			Sectors:     []string{"Travel & Hospitality", "Real Estate", "Supply Chain & Logistics"},
			Direction:   models.DirectionShort,
			TimeHorizon: models.HorizonImmediate,
			Confidence:  0.9,
			Reasoning:   "Lockdown cascade: Travel -90%, Commercial RE vacancy +50%, Global trade disrupted",
		},
		{
			Sectors:     []string{"Healthcare", "Pharmaceuticals", "Biotech"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonImmediate,
			Confidence:  0.85,
			Reasoning:   "Healthcare surge: Hospital capacity crisis, vaccine race, biotech innovation boom",
		},
		{
			Sectors:     []string{"Food Delivery", "Home Improvement", "Gaming"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonShortTerm,
			Confidence:  0.8,
			Reasoning:   "Stay-at-home economy: DoorDash +300%, Home Depot +30%, Gaming engagement +50%",
		},
	},
	models.IncidentClimateEvent: {
		{
			Sectors:     []string{"Renewable Energy", "Electric Vehicles", "Battery Tech"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonLongTerm,
			Confidence:  0.8,
			Reasoning:   "Climate catalyst: Policy acceleration, ESG mandates, green infrastructure spending",
		},
		{
			Sectors:     []string{"Insurance", "Coastal Real Estate", "Agriculture"},
			Direction:   models.DirectionShort,
			TimeHorizon: models.HorizonShortTerm,
			Confidence:  0.75,
			Reasoning:   "Physical risk materialization: Insurance retreat, property devaluation, crop failures",
		},
		{
			Sectors:     []string{"Water Infrastructure", "Climate Tech", "Carbon Credits"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonLongTerm,
			Confidence:  0.7,
			Reasoning:   "Adaptation economy: Water scarcity solutions, carbon markets, resilience tech",
		},
	},
	models.IncidentTechnologyShift: {
		{
			Sectors:     []string{"AI/ML", "Semiconductors", "Cloud Services"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonLongTerm,
			Confidence:  0.9,
			Reasoning:   "AI revolution driving chip demand and cloud computing growth",
		},
		{
			Sectors:     []string{"Data Centers", "Cybersecurity"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonShortTerm,
			Confidence:  0.85,
			Reasoning:   "Increased infrastructure needs for AI workloads",
		},
	},
	models.IncidentRegulationChange: {
		{
			Sectors:     []string{"Fintech", "Cryptocurrency"},
			Direction:   models.DirectionShort,
			TimeHorizon: models.HorizonImmediate,
			Confidence:  0.7,
			Reasoning:   "Regulatory uncertainty typically impacts fintech negatively short-term",
		},
		{
			Sectors:     []string{"Healthcare", "Pharmaceuticals"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonLongTerm,
			Confidence:  0.65,
			Reasoning:   "Healthcare regulations often create barriers to entry",
		},
	},
	models.IncidentEconomicIndicator: {
		{
			Sectors:     []string{"Technology", "Consumer Discretionary"},
			Direction:   models.DirectionShort,
			TimeHorizon: models.HorizonShortTerm,
			Confidence:  0.75,
			Reasoning:   "Rate hikes typically hurt growth stocks",
		},
		{
			Sectors:     []string{"Financial Services", "Banking"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonShortTerm,
			Confidence:  0.8,
			Reasoning:   "Banks benefit from higher interest rates",
		},
	},
	models.IncidentGeopolitical: {
		{
			Sectors:     []string{"Defense", "Cybersecurity"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonImmediate,
			Confidence:  0.85,
			Reasoning:   "Geopolitical tensions increase defense and security spending",
		},
		{
			Sectors:     []string{"Supply Chain & Logistics", "Semiconductors"},
			Direction:   models.DirectionShort,
			TimeHorizon: models.HorizonShortTerm,
			Confidence:  0.7,
			Reasoning:   "Supply chain disruptions from geopolitical events",
		},
		{
			Sectors:     []string{"Commodities", "Energy"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonImmediate,
			Confidence:  0.8,
			Reasoning:   "Commodity prices typically spike during geopolitical tensions",
		},
	},
	models.IncidentSupplyChain: {
		{
			Sectors:     []string{"Supply Chain & Logistics"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonShortTerm,
			Confidence:  0.75,
			Reasoning:   "Supply chain issues increase demand for logistics solutions",
		},
		{
			Sectors:     []string{"Manufacturing", "Automotive"},
			Direction:   models.DirectionShort,
			TimeHorizon: models.HorizonImmediate,
			Confidence:  0.8,
			Reasoning:   "Production disruptions from supply chain issues",
		},
	},
	models.IncidentConsumerTrend: {
		{
			Sectors:     []string{"E-commerce", "Fintech", "Streaming Media"},
			Direction:   models.DirectionLong,
			TimeHorizon: models.HorizonLongTerm,
			Confidence:  0.7,
			Reasoning:   "Digital transformation and changing consumer preferences",
		},
		{
			Sectors:     []string{"Traditional Retail", "Cable TV"},
			Direction:   models.DirectionShort,
			TimeHorizon: models.HorizonLongTerm,
			Confidence:  0.75,
			Reasoning:   "Disruption from digital alternatives",
		},
	},
}
