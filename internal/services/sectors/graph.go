package sectors

import (
	"MarketPulse/internal/domain/models"
)

// mappings is the static sector reference table: member symbols, related
// sectors, and one-hop supply-chain links. Loaded once, never mutated;
// safe to share across concurrent computations.
var mappings = []models.SectorMapping{
	{
		Sector:         "Technology",
		Symbols:        []string{"AAPL", "MSFT", "GOOGL", "META", "NVDA", "AMD", "INTC", "CRM", "ORCL", "ADBE"},
		RelatedSectors: []string{"Semiconductors", "Cloud Services", "Consumer Electronics", "Software"},
		Upstream:       []string{"Semiconductors", "Raw Materials", "Manufacturing"},
		Downstream:     []string{"Retail", "Enterprise", "Consumer Services"},
	},
	{
		Sector:         "Semiconductors",
		Symbols:        []string{"NVDA", "AMD", "INTC", "TSM", "AVGO", "QCOM", "TXN", "MU", "AMAT", "LRCX"},
		RelatedSectors: []string{"Technology", "AI/ML", "Data Centers", "Automotive"},
		Upstream:       []string{"Raw Materials", "Rare Earth Metals", "Manufacturing Equipment"},
		Downstream:     []string{"Technology", "Automotive", "Consumer Electronics", "Data Centers"},
	},
	{
		Sector:         "Remote Work",
		Symbols:        []string{"ZM", "MSFT", "CRM", "TEAM", "DOCU", "NET", "OKTA", "CRWD", "ZS"},
		RelatedSectors: []string{"Technology", "Cloud Services", "Cybersecurity"},
		Upstream:       []string{"Cloud Infrastructure", "Software Development"},
		Downstream:     []string{"Enterprise", "Education", "Healthcare"},
	},
	{
		Sector:         "E-commerce",
		Symbols:        []string{"AMZN", "SHOP", "EBAY", "ETSY", "MELI", "SE", "WMT", "TGT", "CPNG"},
		RelatedSectors: []string{"Logistics", "Payments", "Cloud Services", "Retail"},
		Upstream:       []string{"Manufacturing", "Logistics", "Technology"},
		Downstream:     []string{"Consumer", "Last-Mile Delivery", "Payments"},
	},
	{
		Sector:         "Electric Vehicles",
		Symbols:        []string{"TSLA", "RIVN", "LCID", "NIO", "XPEV", "LI", "GM", "F", "STLA"},
		RelatedSectors: []string{"Battery Technology", "Semiconductors", "Renewable Energy", "Automotive"},
		Upstream:       []string{"Battery Technology", "Semiconductors", "Raw Materials", "Lithium Mining"},
		Downstream:     []string{"Charging Infrastructure", "Energy Grid", "Consumer"},
	},
	{
		Sector:         "Renewable Energy",
		Symbols:        []string{"ENPH", "SEDG", "RUN", "NEE", "BEP", "AES", "PLUG", "FSLR", "SPWR"},
		RelatedSectors: []string{"Electric Vehicles", "Energy Storage", "Utilities", "Infrastructure"},
		Upstream:       []string{"Solar Panels", "Wind Turbines", "Raw Materials"},
		Downstream:     []string{"Utilities", "Electric Vehicles", "Energy Grid"},
	},
	{
		Sector:         "Healthcare",
		Symbols:        []string{"JNJ", "PFE", "UNH", "CVS", "ABBV", "MRK", "TMO", "DHR", "LLY", "AMGN"},
		RelatedSectors: []string{"Biotech", "Pharmaceuticals", "Medical Devices", "Healthcare Services"},
		Upstream:       []string{"Research", "Clinical Trials", "Manufacturing"},
		Downstream:     []string{"Hospitals", "Pharmacies", "Patients"},
	},
	{
		Sector:         "Streaming Media",
		Symbols:        []string{"NFLX", "DIS", "WBD", "PARA", "ROKU", "SPOT", "AAPL", "AMZN", "GOOGL"},
		RelatedSectors: []string{"Entertainment", "Technology", "Telecommunications"},
		Upstream:       []string{"Content Creation", "Production Studios", "Technology Infrastructure"},
		Downstream:     []string{"Consumer", "Advertising", "Telecommunications"},
	},
	{
		Sector:         "Fintech",
		Symbols:        []string{"PYPL", "SQ", "COIN", "SOFI", "AFRM", "UPST", "V", "MA", "AXP"},
		RelatedSectors: []string{"Banking", "Technology", "E-commerce", "Cryptocurrency"},
		Upstream:       []string{"Banking Infrastructure", "Technology", "Regulatory"},
		Downstream:     []string{"Consumer", "Merchants", "E-commerce"},
	},
	{
		Sector:         "Cloud Services",
		Symbols:        []string{"AMZN", "MSFT", "GOOGL", "ORCL", "CRM", "NOW", "SNOW", "MDB", "DDOG"},
		RelatedSectors: []string{"Technology", "Enterprise Software", "Data Centers", "AI/ML"},
		Upstream:       []string{"Data Centers", "Semiconductors", "Networking Equipment"},
		Downstream:     []string{"Enterprise", "Startups", "Government"},
	},
	{
		Sector:         "Cybersecurity",
		Symbols:        []string{"CRWD", "PANW", "ZS", "OKTA", "S", "NET", "FTNT", "CYBR", "RPD"},
		RelatedSectors: []string{"Technology", "Cloud Services", "Enterprise Software"},
		Upstream:       []string{"Software Development", "Threat Intelligence"},
		Downstream:     []string{"Enterprise", "Government", "Financial Services"},
	},
	{
		Sector:         "Real Estate",
		Symbols:        []string{"AMT", "PLD", "CCI", "EQIX", "PSA", "SPG", "O", "AVB", "EQR"},
		RelatedSectors: []string{"Construction", "Financial Services", "Retail", "Hospitality"},
		Upstream:       []string{"Construction", "Materials", "Architecture"},
		Downstream:     []string{"Retail", "Residential", "Commercial Tenants"},
	},
	{
		Sector:         "Supply Chain & Logistics",
		Symbols:        []string{"FDX", "UPS", "XPO", "CHRW", "JBHT", "EXPD", "ZIM", "MATX"},
		RelatedSectors: []string{"E-commerce", "Manufacturing", "Retail", "Transportation"},
		Upstream:       []string{"Transportation", "Warehousing", "Technology"},
		Downstream:     []string{"E-commerce", "Retail", "Manufacturing"},
	},
	{
		Sector:         "AI/ML",
		Symbols:        []string{"NVDA", "MSFT", "GOOGL", "META", "PLTR", "AI", "SNOW", "PATH", "DDOG"},
		RelatedSectors: []string{"Semiconductors", "Cloud Services", "Technology", "Data Centers"},
		Upstream:       []string{"Semiconductors", "Cloud Infrastructure", "Data"},
		Downstream:     []string{"Enterprise", "Consumer Apps", "Healthcare", "Finance"},
	},
	{
		Sector:         "Travel & Hospitality",
		Symbols:        []string{"ABNB", "BKNG", "EXPE", "MAR", "HLT", "UAL", "DAL", "LUV", "AAL"},
		RelatedSectors: []string{"Airlines", "Hotels", "Real Estate", "Entertainment"},
		Upstream:       []string{"Aviation", "Real Estate", "Technology Platforms"},
		Downstream:     []string{"Tourism", "Business Travel", "Consumer"},
	},
}

func findMapping(sector string) *models.SectorMapping {
	for i := range mappings {
		if mappings[i].Sector == sector {
			return &mappings[i]
		}
	}
	return nil
}

// SectorsOf returns every sector whose member list contains symbol, in
// table order.
func SectorsOf(symbol string) []string {
	out := make([]string, 0, 2)
	for i := range mappings {
		for _, s := range mappings[i].Symbols {
			if s == symbol {
				out = append(out, mappings[i].Sector)
				break
			}
		}
	}
	return out
}

// RelatedSymbols returns symbols sharing a sector or a related sector with
// symbol, excluding symbol itself.
func RelatedSymbols(symbol string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 16)
	add := func(s string) {
		if s == symbol {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, sector := range SectorsOf(symbol) {
		m := findMapping(sector)
		if m == nil {
			continue
		}
		for _, s := range m.Symbols {
			add(s)
		}
		for _, rel := range m.RelatedSectors {
			if rm := findMapping(rel); rm != nil {
				for _, s := range rm.Symbols {
					add(s)
				}
			}
		}
	}
	return out
}

// ChainImpact is the one-hop supply-chain neighborhood of a sector.
type ChainImpact struct {
	Upstream   []string
	Downstream []string
	Symbols    []string
}

// SupplyChainImpact returns the sector's own symbols plus the symbols of
// every upstream/downstream sector it declares. One hop only: it does not
// recurse into the upstream's own upstream. Unknown sectors yield empty
// results, not an error.
func SupplyChainImpact(sector string) ChainImpact {
	m := findMapping(sector)
	if m == nil {
		return ChainImpact{Upstream: []string{}, Downstream: []string{}, Symbols: []string{}}
	}
	seen := make(map[string]struct{})
	syms := make([]string, 0, len(m.Symbols))
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		syms = append(syms, s)
	}
	for _, s := range m.Symbols {
		add(s)
	}
	for _, up := range m.Upstream {
		if um := findMapping(up); um != nil {
			for _, s := range um.Symbols {
				add(s)
			}
		}
	}
	for _, down := range m.Downstream {
		if dm := findMapping(down); dm != nil {
			for _, s := range dm.Symbols {
				add(s)
			}
		}
	}
	return ChainImpact{Upstream: m.Upstream, Downstream: m.Downstream, Symbols: syms}
}

// Relationship labels for indirect opportunities.
const (
	RelUpstreamSupplier   = "upstream_supplier"
	RelDownstreamCustomer = "downstream_customer"
	RelRelatedSector      = "related_sector"
)

// IndirectOpportunity is a neighboring sector reachable from a directly
// impacted one.
type IndirectOpportunity struct {
	Sector       string
	Symbols      []string
	Relationship string
}

// IndirectOpportunities emits one entry per upstream sector, per downstream
// sector, and per related sector not already emitted, in that priority
// order, deduplicated by sector name. Unknown sectors degrade to an empty
// slice.
func IndirectOpportunities(eventType models.IncidentType, directSector string) []IndirectOpportunity {
	m := findMapping(directSector)
	if m == nil {
		return nil
	}
	out := make([]IndirectOpportunity, 0, 8)
	emitted := make(map[string]struct{})
	emit := func(sector, rel string) {
		tm := findMapping(sector)
		if tm == nil {
			return
		}
		if _, ok := emitted[sector]; ok {
			return
		}
		emitted[sector] = struct{}{}
		out = append(out, IndirectOpportunity{Sector: sector, Symbols: tm.Symbols, Relationship: rel})
	}
	for _, up := range m.Upstream {
		emit(up, RelUpstreamSupplier)
	}
	for _, down := range m.Downstream {
		emit(down, RelDownstreamCustomer)
	}
	for _, rel := range m.RelatedSectors {
		emit(rel, RelRelatedSector)
	}
	return out
}
