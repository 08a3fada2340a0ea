package feeds

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/service/ratelimit"
	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/util"
)

const avBaseURL = "https://www.alphavantage.co/query"

// AlphaVantage serves both ticker-scoped news and daily adjusted EOD bars.
// The free tier is tightly rate limited, so every request passes through the
// shared limiter first.
type AlphaVantage struct {
	apiKey  string
	client  *xhttp.Client
	limiter *ratelimit.Limiter
}

func NewAlphaVantage(apiKey string, client *xhttp.Client, limiter *ratelimit.Limiter) *AlphaVantage {
	return &AlphaVantage{apiKey: apiKey, client: client, limiter: limiter}
}

func (a *AlphaVantage) Name() string { return "alpha_vantage" }

func (a *AlphaVantage) allow(op string) error {
	if a.limiter != nil && !a.limiter.Allow("alphavantage:"+op, 5, 5.0/60) {
		return fmt.Errorf("alpha vantage %s: rate limited", op)
	}
	return nil
}

type avNewsResponse struct {
	Note        string       `json:"Note"`
	Information string       `json:"Information"`
	ErrorMsg    string       `json:"Error Message"`
	Feed        []avNewsItem `json:"feed"`
}

type avNewsItem struct {
	URL             string  `json:"url"`
	Title           string  `json:"title"`
	Summary         string  `json:"summary"`
	TimePublished   string  `json:"time_published"`
	Source          string  `json:"source"`
	SentimentLabel  string  `json:"overall_sentiment_label"`
	TickerSentiment []struct {
		Ticker string `json:"ticker"`
	} `json:"ticker_sentiment"`
}

func (r *avNewsResponse) apiError() error {
	switch {
	case r.Note != "":
		return fmt.Errorf("alpha vantage note: %s", r.Note)
	case r.Information != "":
		return fmt.Errorf("alpha vantage info: %s", r.Information)
	case r.ErrorMsg != "":
		return fmt.Errorf("alpha vantage error: %s", r.ErrorMsg)
	}
	return nil
}

// Fetch pulls NEWS_SENTIMENT items. Symbols tagged by the provider are kept
// as-is; untagged items get symbols inferred later during enrichment.
func (a *AlphaVantage) Fetch(ctx context.Context, opts repository.FetchOptions) ([]models.NewsItem, error) {
	if err := a.allow("news"); err != nil {
		return nil, err
	}

	params := map[string][]string{
		"function": {"NEWS_SENTIMENT"},
		"apikey":   {a.apiKey},
	}
	if len(opts.Tickers) > 0 {
		params["tickers"] = []string{strings.Join(opts.Tickers, ",")}
	}
	if opts.MaxItems > 0 {
		params["limit"] = []string{strconv.Itoa(opts.MaxItems)}
	}
	if opts.DaysBack > 0 {
		from := time.Now().UTC().AddDate(0, 0, -opts.DaysBack)
		params["time_from"] = []string{from.Format("20060102") + "T0000"}
	}

	var resp avNewsResponse
	if err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         avBaseURL,
		QueryParams: params,
	}, &resp); err != nil {
		return nil, fmt.Errorf("alpha vantage news: %w", err)
	}
	if err := resp.apiError(); err != nil {
		return nil, err
	}

	items := make([]models.NewsItem, 0, len(resp.Feed))
	for _, n := range resp.Feed {
		date := avDate(n.TimePublished)
		symbols := make([]string, 0, len(n.TickerSentiment))
		for _, t := range n.TickerSentiment {
			if t.Ticker != "" {
				symbols = append(symbols, t.Ticker)
			}
		}
		summary := n.Summary
		if summary == "" {
			summary = n.SentimentLabel
		}
		id := n.URL
		if id == "" {
			id = fmt.Sprintf("%s_%.24s", date, n.Title)
		}
		title := n.Title
		if title == "" {
			title = "Untitled"
		}
		source := n.Source
		if source == "" {
			source = a.Name()
		}
		items = append(items, models.NewsItem{
			ID:      id,
			Date:    date,
			Source:  source,
			URL:     n.URL,
			Title:   title,
			Summary: summary,
			Symbols: symbols,
		})
	}
	return items, nil
}

// avDate converts Alpha Vantage's yyyymmddThhmmss stamp to an ISO date.
func avDate(stamp string) string {
	if len(stamp) >= 8 {
		return stamp[0:4] + "-" + stamp[4:6] + "-" + stamp[6:8]
	}
	return util.Today()
}

type avSeriesResponse struct {
	Note        string                       `json:"Note"`
	Information string                       `json:"Information"`
	ErrorMsg    string                       `json:"Error Message"`
	Series      map[string]map[string]string `json:"Time Series (Daily)"`
}

// FetchDaily pulls TIME_SERIES_DAILY_ADJUSTED bars, sorted date-ascending.
func (a *AlphaVantage) FetchDaily(ctx context.Context, symbol string) ([]models.EODBar, error) {
	if err := a.allow("eod"); err != nil {
		return nil, err
	}

	var resp avSeriesResponse
	if err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    avBaseURL,
		QueryParams: map[string][]string{
			"function":   {"TIME_SERIES_DAILY_ADJUSTED"},
			"symbol":     {symbol},
			"apikey":     {a.apiKey},
			"outputsize": {"compact"},
		},
	}, &resp); err != nil {
		return nil, fmt.Errorf("alpha vantage eod %s: %w", symbol, err)
	}
	if resp.Note != "" || resp.Information != "" || resp.ErrorMsg != "" {
		return nil, (&avNewsResponse{Note: resp.Note, Information: resp.Information, ErrorMsg: resp.ErrorMsg}).apiError()
	}

	bars := make([]models.EODBar, 0, len(resp.Series))
	for date, v := range resp.Series {
		bars = append(bars, models.EODBar{
			Symbol:   symbol,
			Date:     date,
			Open:     avFloat(v["1. open"]),
			High:     avFloat(v["2. high"]),
			Low:      avFloat(v["3. low"]),
			Close:    avFloat(v["4. close"]),
			AdjClose: avFloat(v["5. adjusted close"]),
			Volume:   avFloat(v["6. volume"]),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}

func avFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
