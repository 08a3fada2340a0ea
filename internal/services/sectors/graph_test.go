package sectors

import (
	"testing"
)

func TestSectorsOf(t *testing.T) {
	got := SectorsOf("NVDA")
	want := map[string]bool{"Technology": true, "Semiconductors": true, "AI/ML": true}
	if len(got) != len(want) {
		t.Fatalf("unexpected sectors %v", got)
	}
	for _, s := range got {
		if !want[s] {
			t.Fatalf("unexpected sector %s", s)
		}
	}
}

func TestSectorsOfUnknown(t *testing.T) {
	if got := SectorsOf("ZZZZ"); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestRelatedSymbolsExcludesSelf(t *testing.T) {
	got := RelatedSymbols("AAPL")
	if len(got) == 0 {
		t.Fatalf("expected related symbols")
	}
	for _, s := range got {
		if s == "AAPL" {
			t.Fatalf("result must not contain the input symbol")
		}
	}
	seen := make(map[string]int)
	for _, s := range got {
		seen[s]++
		if seen[s] > 1 {
			t.Fatalf("duplicate symbol %s", s)
		}
	}
}

func TestSupplyChainImpactOneHop(t *testing.T) {
	imp := SupplyChainImpact("Technology")
	if len(imp.Upstream) != 3 || imp.Upstream[0] != "Semiconductors" {
		t.Fatalf("unexpected upstream %v", imp.Upstream)
	}
	// Semiconductors is a mapped upstream sector, so its symbols appear.
	found := false
	for _, s := range imp.Symbols {
		if s == "TSM" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected upstream symbol TSM in %v", imp.Symbols)
	}
}

func TestSupplyChainImpactUnknownSector(t *testing.T) {
	imp := SupplyChainImpact("Nonexistent")
	if len(imp.Upstream) != 0 || len(imp.Downstream) != 0 || len(imp.Symbols) != 0 {
		t.Fatalf("expected empty impact, got %+v", imp)
	}
}

func TestIndirectOpportunitiesPriorityAndDedup(t *testing.T) {
	opps := IndirectOpportunities("supply_chain", "Technology")
	if len(opps) == 0 {
		t.Fatalf("expected opportunities")
	}
	// Semiconductors is upstream of Technology; upstream wins over related.
	for _, o := range opps {
		if o.Sector == "Semiconductors" && o.Relationship != RelUpstreamSupplier {
			t.Fatalf("expected upstream relationship, got %s", o.Relationship)
		}
	}
	seen := make(map[string]bool)
	for _, o := range opps {
		if seen[o.Sector] {
			t.Fatalf("duplicate sector %s", o.Sector)
		}
		seen[o.Sector] = true
	}
}

func TestIndirectOpportunitiesUnknownSector(t *testing.T) {
	if opps := IndirectOpportunities("supply_chain", "Nonexistent"); len(opps) != 0 {
		t.Fatalf("expected none, got %v", opps)
	}
}
