package models

// IncidentType tags a classified news item.
type IncidentType string

const (
	IncidentLayoffs           IncidentType = "layoffs"
	IncidentLawsuit           IncidentType = "lawsuit"
	IncidentRegulatory        IncidentType = "regulatory"
	IncidentProductRecall     IncidentType = "product_recall"
	IncidentGuidanceCut       IncidentType = "guidance_cut"
	IncidentGuidanceRaise     IncidentType = "guidance_raise"
	IncidentEarningsBeat      IncidentType = "earnings_beat"
	IncidentEarningsMiss      IncidentType = "earnings_miss"
	IncidentMNA               IncidentType = "mna"
	IncidentExecChange        IncidentType = "exec_change"
	IncidentDowngrade         IncidentType = "downgrade"
	IncidentUpgrade           IncidentType = "upgrade"
	IncidentSecurityBreach    IncidentType = "security_breach"
	IncidentPandemic          IncidentType = "pandemic"
	IncidentSupplyChain       IncidentType = "supply_chain"
	IncidentGeopolitical      IncidentType = "geopolitical"
	IncidentClimateEvent      IncidentType = "climate_event"
	IncidentTechnologyShift   IncidentType = "technology_shift"
	IncidentRegulationChange  IncidentType = "regulation_change"
	IncidentEconomicIndicator IncidentType = "economic_indicator"
	IncidentCommodityShift    IncidentType = "commodity_shift"
	IncidentConsumerTrend     IncidentType = "consumer_trend"
	IncidentOther             IncidentType = "other"
)

// EventCategory groups incident types for impact analysis.
type EventCategory string

const (
	CategoryCompanySpecific EventCategory = "company_specific"
	CategorySectorWide      EventCategory = "sector_wide"
	CategoryMacroEconomic   EventCategory = "macro_economic"
	CategoryGeopolitical    EventCategory = "geopolitical"
	CategoryTechnological   EventCategory = "technological"
	CategoryEnvironmental   EventCategory = "environmental"
	CategorySocial          EventCategory = "social"
)

// Magnitude is the assessed severity of an event.
type Magnitude string

const (
	MagnitudeLow      Magnitude = "low"
	MagnitudeMedium   Magnitude = "medium"
	MagnitudeHigh     Magnitude = "high"
	MagnitudeCritical Magnitude = "critical"
)

// Direction of a trading signal or opportunity.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// TimeHorizon over which an event is expected to play out.
type TimeHorizon string

const (
	HorizonImmediate TimeHorizon = "immediate"
	HorizonShortTerm TimeHorizon = "short_term"
	HorizonLongTerm  TimeHorizon = "long_term"
)

// NewsItem is a normalized news record from any feed collaborator.
// Date is an ISO date (yyyy-mm-dd); Symbols may be empty and is then
// inferred from the text during enrichment.
type NewsItem struct {
	ID      string   `json:"id"`
	Date    string   `json:"date"`
	Source  string   `json:"source"`
	URL     string   `json:"url,omitempty"`
	Title   string   `json:"title"`
	Summary string   `json:"summary,omitempty"`
	Symbols []string `json:"symbols"`
}

// EODBar is a daily price bar. Series are stored date-ascending per symbol.
type EODBar struct {
	Symbol   string  `json:"symbol"`
	Date     string  `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adjClose,omitempty"`
	Volume   float64 `json:"volume,omitempty"`
}

// Price returns the adjusted close when present, else the close.
func (b EODBar) Price() float64 {
	if b.AdjClose != 0 {
		return b.AdjClose
	}
	return b.Close
}

// Incident is the classification result for one news item. ID equals the
// news id; an incident is created once and never mutated.
type Incident struct {
	ID      string       `json:"id"`
	Date    string       `json:"date"`
	Symbols []string     `json:"symbols"`
	Type    IncidentType `json:"type"`
	Score   float64      `json:"score"`
}

// Classification is the outcome of classifying a news item.
type Classification struct {
	Type      IncidentType  `json:"type"`
	Category  EventCategory `json:"category"`
	Score     float64       `json:"score"`
	Magnitude Magnitude     `json:"magnitude"`
}

// MarketEvent is created for strong classifications. ImpactedSectors only
// grows (set union) after creation, never shrinks.
type MarketEvent struct {
	ID               string        `json:"id"`
	Date             string        `json:"date"`
	Type             IncidentType  `json:"type"`
	Category         EventCategory `json:"category"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	ImpactedSectors  []string      `json:"impactedSectors"`
	ImpactedSymbols  []string      `json:"impactedSymbols"`
	CorrelatedEvents []string      `json:"correlatedEvents,omitempty"`
	Magnitude        Magnitude     `json:"magnitude"`
	TimeHorizon      TimeHorizon   `json:"timeHorizon"`
}

// Signal is a directional trading signal. ID is symbol_date; one signal
// per (symbol, date) pair.
type Signal struct {
	ID           string       `json:"id"`
	Symbol       string       `json:"symbol"`
	Date         string       `json:"date"`
	IncidentType IncidentType `json:"incidentType"`
	Direction    Direction    `json:"direction"`
	Strength     float64      `json:"strength"`
}

// ForwardReturn is a derived, non-persisted record: the realized forward
// return of one signal over one bar window.
type ForwardReturn struct {
	Symbol       string       `json:"symbol"`
	SignalDate   string       `json:"signalDate"`
	FwdDays      int          `json:"fwdDays"`
	Return       float64      `json:"return"`
	IncidentType IncidentType `json:"incidentType"`
}

// BacktestMetrics aggregates forward returns for one window.
type BacktestMetrics struct {
	WindowDays  int     `json:"windowDays"`
	Count       int     `json:"count"`
	HitRate     float64 `json:"hitRate"`
	AvgReturn   float64 `json:"avgReturn"`
	StdReturn   float64 `json:"stdReturn"`
	SharpeProxy float64 `json:"sharpeProxy"`
}

// ConfusionRow counts positive vs non-positive returns per incident type.
type ConfusionRow struct {
	IncidentType IncidentType `json:"incidentType"`
	Positive     int          `json:"positive"`
	Negative     int          `json:"negative"`
}

// OpportunityType distinguishes how an opportunity was derived.
type OpportunityType string

const (
	OpportunityDirect      OpportunityType = "direct"
	OpportunityIndirect    OpportunityType = "indirect"
	OpportunityCorrelation OpportunityType = "correlation"
)

// OpportunityStatus lifecycle: active -> monitoring|expired|realized.
// Transitions are owned by external collaborators.
type OpportunityStatus string

const (
	StatusActive     OpportunityStatus = "active"
	StatusMonitoring OpportunityStatus = "monitoring"
	StatusExpired    OpportunityStatus = "expired"
	StatusRealized   OpportunityStatus = "realized"
)

// Timeframe is the entry/exit window of an opportunity.
type Timeframe struct {
	Entry   string `json:"entry"`
	Exit    string `json:"exit"`
	Horizon string `json:"horizon"` // days | weeks | months
}

// ExpectedReturn is the projected return band of an opportunity.
type ExpectedReturn struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Expected float64 `json:"expected"`
}

// MarketOpportunity is a synthesized directional trading opportunity.
type MarketOpportunity struct {
	ID             string            `json:"id"`
	CreatedAt      string            `json:"createdAt"`
	EventIDs       []string          `json:"eventIds"`
	Symbols        []string          `json:"symbols"`
	Sectors        []string          `json:"sectors"`
	Type           OpportunityType   `json:"type"`
	Direction      Direction         `json:"direction"`
	Timeframe      Timeframe         `json:"timeframe"`
	Confidence     float64           `json:"confidence"`
	Reasoning      string            `json:"reasoning"`
	ExpectedReturn *ExpectedReturn   `json:"expectedReturn,omitempty"`
	RiskScore      float64           `json:"riskScore"`
	Status         OpportunityStatus `json:"status"`
}

// SectorMapping is read-only reference data: a sector, its member symbols,
// related sectors, and one-hop supply-chain links.
type SectorMapping struct {
	Sector         string
	Symbols        []string
	RelatedSectors []string
	Upstream       []string
	Downstream     []string
}

// MacroPattern is a detected cross-event macro pattern (contagion risk,
// commodity supercycle and the like).
type MacroPattern struct {
	Pattern         string    `json:"pattern"`
	Confidence      float64   `json:"confidence"`
	PredictedImpact string    `json:"predictedImpact"` // bullish | bearish | volatile
	AffectedSectors []string  `json:"affectedSectors"`
	TimeHorizon     string    `json:"timeHorizon"`
	Analogy         string    `json:"historicalAnalogy,omitempty"`
}
