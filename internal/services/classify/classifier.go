package classify

import (
	"context"
	"strings"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/service"
)

// Incident scores always land in [minScore, maxScore], whichever path
// produced them.
const (
	minScore = 0.3
	maxScore = 0.9
)

// fallback is the terminal low-confidence classification when neither the
// rules nor the external classifier produce a result.
var fallback = models.Classification{
	Type:      models.IncidentOther,
	Category:  models.CategoryCompanySpecific,
	Score:     minScore,
	Magnitude: models.MagnitudeLow,
}

// Classifier turns a news item into a Classification. The rule table is
// authoritative; the external classifier only sees items no rule matched.
type Classifier struct {
	external service.TextClassifier // optional
}

func New(external service.TextClassifier) *Classifier {
	return &Classifier{external: external}
}

// Classify scores every rule against the item's combined title+summary text
// and keeps the best. Each match scores matchLen/textLen, plus a 0.1 bonus
// when the match starts at position zero; the final score is
// min(0.6+best, 0.9). No rule match falls through to the external
// classifier, then to the static fallback. Never returns an error: scoring
// is total.
func (c *Classifier) Classify(ctx context.Context, news *models.NewsItem) models.Classification {
	text := news.Title
	if news.Summary != "" {
		text = news.Title + " " + news.Summary
	}

	best := -1.0
	var bestRule *rule
	for i := range rules {
		loc := rules[i].match.FindStringIndex(text)
		if loc == nil {
			continue
		}
		score := float64(loc[1]-loc[0]) / float64(len(text))
		if loc[0] == 0 {
			score += 0.1
		}
		if score > best {
			best = score
			bestRule = &rules[i]
		}
	}
	if bestRule != nil {
		score := 0.6 + best
		if score > maxScore {
			score = maxScore
		}
		return models.Classification{
			Type:      bestRule.typ,
			Category:  bestRule.category,
			Score:     score,
			Magnitude: assessMagnitude(text),
		}
	}

	if c.external != nil {
		if res, err := c.external.Classify(ctx, news); err == nil && res != nil {
			return *res
		}
	}
	return fallback
}

func assessMagnitude(text string) models.Magnitude {
	switch {
	case criticalRe.MatchString(text):
		return models.MagnitudeCritical
	case highRe.MatchString(text):
		return models.MagnitudeHigh
	case lowRe.MatchString(text):
		return models.MagnitudeLow
	default:
		return models.MagnitudeMedium
	}
}

// IsIncidentWorthy reports whether a classification clears the incident
// threshold. Strict: exactly 0.6 does not qualify.
func IsIncidentWorthy(c models.Classification) bool {
	return c.Score > 0.6
}

// Keywords that upgrade a title-only sanity check; exported for feed
// collaborators that pre-filter obviously irrelevant items.
func LooksFinancial(title string) bool {
	t := strings.ToLower(title)
	for _, k := range []string{"stock", "share", "market", "earnings", "revenue", "profit", "trading"} {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}
