package feeds

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"strconv"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	xhttp "MarketPulse/pkg/http"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"
)

const gdeltDocURL = "https://api.gdeltproject.org/api/v2/doc/doc"

// Broad query pool for global event monitoring, grouped by theme. Each fetch
// samples a subset to stay inside GDELT's informal rate limits.
var gdeltQueries = []string{
	// geopolitical
	"ukraine russia conflict latest",
	"middle east tensions",
	"china taiwan situation",
	"trade war tariffs",
	"sanctions economic impact",
	"NATO expansion",
	// economic
	"federal reserve interest rate decision",
	"inflation data CPI PPI",
	"unemployment jobs report",
	"recession indicators",
	"banking crisis",
	"currency crisis dollar",
	"yield curve inversion",
	// commodities
	"oil price opec production",
	"crude oil forecast WTI Brent",
	"gold price safe haven",
	"wheat corn food prices",
	"lithium battery metals",
	"commodity supercycle",
	// disruptions
	"supply chain disruption shortage",
	"semiconductor chip shortage",
	"shipping container crisis",
	"port congestion delays",
	"cyber attack infrastructure",
	"labor strike union",
	// climate
	"hurricane damage forecast",
	"wildfire california australia",
	"drought agriculture impact",
	"extreme weather event",
	"renewable energy transition",
	// technology
	"AI regulation government",
	"cryptocurrency regulation ban",
	"antitrust tech giants",
	"quantum computing breakthrough",
	"electric vehicle adoption",
	// social
	"pandemic outbreak virus",
	"social unrest protests",
	"housing crisis bubble",
	"consumer confidence sentiment",
	// emerging risk
	"systemic risk contagion",
	"volatility spike VIX",
	"liquidity crisis freeze",
	"sovereign default risk",
}

const gdeltQuerySample = 15

// GDELT fetches global event articles from the GDELT 2.0 doc API.
type GDELT struct {
	client *xhttp.Client
	l      *applogger.Logger
	rnd    *rand.Rand
}

func NewGDELT(client *xhttp.Client, l *applogger.Logger) *GDELT {
	return &GDELT{
		client: client,
		l:      l,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *GDELT) Name() string { return "gdelt" }

type gdeltResponse struct {
	Articles []struct {
		URL      string `json:"url"`
		Title    string `json:"title"`
		Snippet  string `json:"snippet"`
		Domain   string `json:"domain"`
		SeenDate string `json:"seendate"`
	} `json:"articles"`
}

// Fetch samples queries from the pool and unions their article lists.
// Individual query failures are logged and skipped so one flaky upstream
// query cannot sink the whole fetch.
func (g *GDELT) Fetch(ctx context.Context, opts repository.FetchOptions) ([]models.NewsItem, error) {
	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = 100
	}
	timespan := "1d"
	if opts.DaysBack > 1 {
		timespan = strconv.Itoa(opts.DaysBack) + "d"
	}
	perQuery := maxItems / gdeltQuerySample
	if perQuery < 1 {
		perQuery = 1
	}

	queries := g.sampleQueries(gdeltQuerySample)
	items := make([]models.NewsItem, 0, maxItems)
	for _, q := range queries {
		var resp gdeltResponse
		err := g.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    gdeltDocURL,
			QueryParams: map[string][]string{
				"query":      {q},
				"mode":       {"ArtList"},
				"maxrecords": {strconv.Itoa(perQuery)},
				"timespan":   {timespan},
				"format":     {"json"},
				"sort":       {"DateDesc"},
			},
		}, &resp)
		if err != nil {
			if g.l != nil {
				g.l.Warn("gdelt query failed",
					applogger.String("query", q),
					applogger.Error(err),
				)
			}
			continue
		}
		for _, a := range resp.Articles {
			title := a.Title
			if title == "" {
				title = "Untitled"
			}
			source := a.Domain
			if source == "" {
				source = g.Name()
			}
			items = append(items, models.NewsItem{
				ID:      hashID(a.SeenDate + "_" + a.Title),
				Date:    gdeltDate(a.SeenDate),
				Source:  source,
				URL:     a.URL,
				Title:   title,
				Summary: a.Snippet,
				Symbols: []string{},
			})
		}
		if len(items) >= maxItems {
			break
		}
	}
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, nil
}

func (g *GDELT) sampleQueries(n int) []string {
	if n >= len(gdeltQueries) {
		return gdeltQueries
	}
	idx := g.rnd.Perm(len(gdeltQueries))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = gdeltQueries[j]
	}
	return out
}

// gdeltDate parses GDELT's yyyymmddThhmmssZ seendate into an ISO date.
func gdeltDate(seen string) string {
	if len(seen) >= 8 {
		if _, err := time.Parse("20060102", seen[:8]); err == nil {
			return seen[0:4] + "-" + seen[4:6] + "-" + seen[6:8]
		}
	}
	return util.Today()
}

func hashID(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
