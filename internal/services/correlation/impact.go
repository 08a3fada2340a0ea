package correlation

import (
	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/services/sectors"
)

// Impact is the resolved blast radius of one market event.
type Impact struct {
	DirectSectors     []string
	DirectSymbols     []string
	IndirectSectors   []string
	IndirectSymbols   []string
	CorrelatedSectors []string
}

// AnalyzeImpact expands an event into direct, indirect, and correlated
// exposure. Direct is what the event itself names; correlated sectors come
// from the event-pattern table; indirect unions the one-hop supply chain of
// every correlated sector plus the indirect neighbors of every directly
// impacted sector. Events with no pattern entry still produce their direct
// and per-sector indirect exposure.
func AnalyzeImpact(ev *models.MarketEvent) Impact {
	indirectSectors := newOrderedSet()
	indirectSymbols := newOrderedSet()
	correlated := newOrderedSet()

	for _, impact := range eventPatterns[ev.Type] {
		for _, sector := range impact.Sectors {
			correlated.add(sector)
			chain := sectors.SupplyChainImpact(sector)
			indirectSectors.addAll(chain.Upstream)
			indirectSectors.addAll(chain.Downstream)
			indirectSymbols.addAll(chain.Symbols)
		}
	}

	for _, sector := range ev.ImpactedSectors {
		for _, opp := range sectors.IndirectOpportunities(ev.Type, sector) {
			indirectSectors.add(opp.Sector)
			indirectSymbols.addAll(opp.Symbols)
		}
	}

	return Impact{
		DirectSectors:     dedup(ev.ImpactedSectors),
		DirectSymbols:     dedup(ev.ImpactedSymbols),
		IndirectSectors:   indirectSectors.values(),
		IndirectSymbols:   indirectSymbols.values(),
		CorrelatedSectors: correlated.values(),
	}
}

// orderedSet keeps first-insertion order so impact output is deterministic.
type orderedSet struct {
	seen map[string]struct{}
	vals []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.vals = append(s.vals, v)
}

func (s *orderedSet) addAll(vs []string) {
	for _, v := range vs {
		s.add(v)
	}
}

func (s *orderedSet) values() []string {
	if s.vals == nil {
		return []string{}
	}
	return s.vals
}

func dedup(vs []string) []string {
	set := newOrderedSet()
	set.addAll(vs)
	return set.values()
}
