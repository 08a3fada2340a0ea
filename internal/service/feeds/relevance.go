package feeds

import (
	"regexp"
	"strings"

	"MarketPulse/internal/domain/models"
)

// Relevance is the market-impact screen applied to broad global feeds
// before their items enter the pipeline.
type Relevance struct {
	IsRelevant  bool
	Category    string
	ImpactLevel models.Magnitude
	Tags        []string
}

type relevanceRule struct {
	match    *regexp.Regexp
	escalate *regexp.Regexp // bumps to the escalated level when it also hits
	tag      string
	category string
	level    models.Magnitude
	escLevel models.Magnitude
}

var relevanceRules = []relevanceRule{
	{
		match:    regexp.MustCompile(`war|conflict|invasion|military|missile|nuclear`),
		escalate: regexp.MustCompile(`russia|ukraine|china|taiwan|iran|israel`),
		tag:      "geopolitical", category: "geopolitical",
		level: models.MagnitudeHigh, escLevel: models.MagnitudeCritical,
	},
	{
		match:    regexp.MustCompile(`inflation|recession|interest rate|federal reserve|unemployment`),
		escalate: regexp.MustCompile(`crisis|collapse|emergency|crash`),
		tag:      "economic", category: "economic",
		level: models.MagnitudeHigh, escLevel: models.MagnitudeCritical,
	},
	{
		match:    regexp.MustCompile(`oil|opec|crude|wti|brent|gold|copper|wheat|commodity`),
		escalate: regexp.MustCompile(`shortage|crisis|spike|plunge|record`),
		tag:      "commodities", category: "commodities",
		level: models.MagnitudeMedium, escLevel: models.MagnitudeHigh,
	},
	{
		match:    regexp.MustCompile(`supply chain|shortage|logistics|shipping|manufacturing`),
		escalate: regexp.MustCompile(`global|critical|severe|collapse`),
		tag:      "supply_chain", category: "disruptions",
		level: models.MagnitudeMedium, escLevel: models.MagnitudeHigh,
	},
	{
		match:    regexp.MustCompile(`hurricane|wildfire|flood|drought|climate|disaster`),
		escalate: regexp.MustCompile(`category 5|catastrophic|emergency|evacuation`),
		tag:      "climate", category: "climate",
		level: models.MagnitudeMedium, escLevel: models.MagnitudeCritical,
	},
	{
		match: regexp.MustCompile(`ai regulation|crypto ban|antitrust|data breach|quantum`),
		tag:   "technology", category: "technology",
		level: models.MagnitudeMedium,
	},
	{
		match:    regexp.MustCompile(`pandemic|outbreak|virus|protest|unrest|strike`),
		escalate: regexp.MustCompile(`global|widespread|emergency|lockdown`),
		tag:      "social", category: "social",
		level: models.MagnitudeHigh, escLevel: models.MagnitudeCritical,
	},
}

// AnalyzeRelevance screens a news item for broad market impact. Later rules
// overwrite the category; the impact level of the last matching rule wins.
func AnalyzeRelevance(item *models.NewsItem) Relevance {
	text := strings.ToLower(item.Title + " " + item.Summary)

	rel := Relevance{Category: "other", ImpactLevel: models.MagnitudeLow}
	for _, r := range relevanceRules {
		if !r.match.MatchString(text) {
			continue
		}
		rel.Tags = append(rel.Tags, r.tag)
		rel.Category = r.category
		rel.ImpactLevel = r.level
		if r.escalate != nil && r.escalate.MatchString(text) {
			rel.ImpactLevel = r.escLevel
		}
	}
	rel.IsRelevant = len(rel.Tags) > 0 || rel.ImpactLevel != models.MagnitudeLow
	return rel
}
