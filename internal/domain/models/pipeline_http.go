package models

// Requests for pipeline HTTP endpoints. Defined in domain for consistency and reuse.

type IngestRequest struct {
	Tickers  []string `json:"tickers"`
	DaysBack int      `json:"daysBack" default:"1" validate:"gte=1,lte=365"`
	MaxItems int      `json:"maxItems" default:"100" validate:"gte=1,lte=1000"`
}

type EnrichRequest struct {
	Limit int `json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type SignalsRequest struct {
	Limit int `json:"limit" default:"200" validate:"gte=1,lte=5000"`
}

type OpportunitiesRequest struct {
	DaysBack        int     `json:"daysBack" default:"7" validate:"gte=1,lte=90"`
	MinConfidence   float64 `json:"minConfidence" default:"0.6" validate:"gte=0,lte=1"`
	IncludeIndirect *bool   `json:"includeIndirect"`
}

type BacktestRequest struct {
	Windows []int `json:"windows" validate:"omitempty,dive,gte=1,lte=250"`
	Limit   int   `json:"limit" default:"1000" validate:"gte=1,lte=10000"`
}

type ListOpportunitiesRequest struct {
	Status string `query:"status" json:"status" validate:"omitempty,oneof=active monitoring expired realized"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}
