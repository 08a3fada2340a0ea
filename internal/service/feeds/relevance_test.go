package feeds

import (
	"testing"

	"MarketPulse/internal/domain/models"
)

func TestAnalyzeRelevanceEscalation(t *testing.T) {
	rel := AnalyzeRelevance(&models.NewsItem{
		Title:   "Missile strikes reported near Ukraine border",
		Summary: "Military activity escalates in the region",
	})
	if !rel.IsRelevant {
		t.Fatalf("expected relevant")
	}
	if rel.Category != "geopolitical" {
		t.Fatalf("category = %s", rel.Category)
	}
	if rel.ImpactLevel != models.MagnitudeCritical {
		t.Fatalf("impact = %s, want critical", rel.ImpactLevel)
	}
}

func TestAnalyzeRelevanceNoEscalation(t *testing.T) {
	rel := AnalyzeRelevance(&models.NewsItem{
		Title: "OPEC discusses crude output targets for next quarter",
	})
	if rel.Category != "commodities" {
		t.Fatalf("category = %s", rel.Category)
	}
	if rel.ImpactLevel != models.MagnitudeMedium {
		t.Fatalf("impact = %s, want medium", rel.ImpactLevel)
	}
}

func TestAnalyzeRelevanceLastRuleWins(t *testing.T) {
	rel := AnalyzeRelevance(&models.NewsItem{
		Title:   "War fears deepen as shipping routes face shortage",
		Summary: "supply chain pressure builds",
	})
	if rel.Category != "disruptions" {
		t.Fatalf("category = %s, want disruptions", rel.Category)
	}
	if len(rel.Tags) < 2 {
		t.Fatalf("tags = %v, want both rules tagged", rel.Tags)
	}
}

func TestAnalyzeRelevanceIrrelevant(t *testing.T) {
	rel := AnalyzeRelevance(&models.NewsItem{
		Title: "Local bakery celebrates 50 years in business",
	})
	if rel.IsRelevant {
		t.Fatalf("expected irrelevant")
	}
	if rel.Category != "other" || rel.ImpactLevel != models.MagnitudeLow {
		t.Fatalf("got category=%s impact=%s", rel.Category, rel.ImpactLevel)
	}
}
