package classify

import (
	"context"
	"fmt"

	"MarketPulse/internal/domain/models"
	xhttp "MarketPulse/pkg/http"
)

// HTTPClassifier calls an external text-classification endpoint for items
// the rule table could not place. It implements service.TextClassifier.
type HTTPClassifier struct {
	endpoint string
	apiKey   string
	client   *xhttp.Client
}

func NewHTTPClassifier(endpoint, apiKey string, client *xhttp.Client) *HTTPClassifier {
	return &HTTPClassifier{endpoint: endpoint, apiKey: apiKey, client: client}
}

type classifyRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

type classifyResponse struct {
	Type       string  `json:"type"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Magnitude  string  `json:"magnitude"`
}

// Classify posts the item text and maps the response onto the local
// taxonomy. Unknown types or categories from the remote side return
// (nil, nil) so the caller degrades to its static fallback.
func (h *HTTPClassifier) Classify(ctx context.Context, news *models.NewsItem) (*models.Classification, error) {
	var out classifyResponse
	err := h.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    h.endpoint,
		Headers: map[string]string{
			"Authorization": "Bearer " + h.apiKey,
		},
		Body: classifyRequest{Title: news.Title, Summary: news.Summary},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", news.ID, err)
	}

	typ := models.IncidentType(out.Type)
	cat := models.EventCategory(out.Category)
	if !knownIncidentType(typ) || !knownCategory(cat) {
		return nil, nil
	}
	mag := models.Magnitude(out.Magnitude)
	switch mag {
	case models.MagnitudeLow, models.MagnitudeMedium, models.MagnitudeHigh, models.MagnitudeCritical:
	default:
		mag = models.MagnitudeMedium
	}
	// Remote confidence lands in the same [0.3, 0.9] band the rule table
	// produces, so downstream thresholds see one scale.
	score := out.Confidence
	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}
	return &models.Classification{Type: typ, Category: cat, Score: score, Magnitude: mag}, nil
}

func knownIncidentType(t models.IncidentType) bool {
	switch t {
	case models.IncidentLayoffs, models.IncidentLawsuit, models.IncidentRegulatory,
		models.IncidentProductRecall, models.IncidentGuidanceCut, models.IncidentGuidanceRaise,
		models.IncidentEarningsBeat, models.IncidentEarningsMiss, models.IncidentMNA,
		models.IncidentExecChange, models.IncidentDowngrade, models.IncidentUpgrade,
		models.IncidentSecurityBreach, models.IncidentPandemic, models.IncidentSupplyChain,
		models.IncidentGeopolitical, models.IncidentClimateEvent, models.IncidentTechnologyShift,
		models.IncidentRegulationChange, models.IncidentEconomicIndicator,
		models.IncidentCommodityShift, models.IncidentConsumerTrend, models.IncidentOther:
		return true
	}
	return false
}

func knownCategory(c models.EventCategory) bool {
	switch c {
	case models.CategoryCompanySpecific, models.CategorySectorWide, models.CategoryMacroEconomic,
		models.CategoryGeopolitical, models.CategoryTechnological, models.CategoryEnvironmental,
		models.CategorySocial:
		return true
	}
	return false
}
