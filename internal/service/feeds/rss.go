package feeds

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	xhttp "MarketPulse/pkg/http"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"
)

// Default feed set, grouped by theme.
var defaultRSSFeeds = []string{
	// financial
	"https://feeds.bloomberg.com/markets/news.rss",
	"https://feeds.content.dowjones.io/public/rss/mw_topstories",
	"https://feeds.finance.yahoo.com/rss/2.0/headline",
	"https://www.cnbc.com/id/100003114/device/rss/rss.html",
	// geopolitical
	"https://www.aljazeera.com/xml/rss/all.xml",
	"https://feeds.bbci.co.uk/news/world/rss.xml",
	"https://rss.nytimes.com/services/xml/rss/nyt/World.xml",
	"https://www.theguardian.com/world/rss",
	// technology
	"https://feeds.arstechnica.com/arstechnica/index",
	"https://techcrunch.com/feed/",
	// economic
	"https://www.federalreserve.gov/feeds/press_all.xml",
	"https://www.imf.org/en/News/RSS",
}

const maxItemsPerFeed = 5

var (
	rssTitleRe = regexp.MustCompile(`<title><!\[CDATA\[(.*?)\]\]></title>|<title>(.*?)</title>`)
	rssLinkRe  = regexp.MustCompile(`<link>(.*?)</link>`)
	rssDateRe  = regexp.MustCompile(`<pubDate>(.*?)</pubDate>`)
)

// RSS fetches headlines from a fixed set of feeds. Parsing is deliberately
// shallow: titles, links, and pub dates only, capped per feed. Feeds that
// fail to fetch are logged and skipped.
type RSS struct {
	feeds  []string
	client *xhttp.Client
	l      *applogger.Logger
}

func NewRSS(feeds []string, client *xhttp.Client, l *applogger.Logger) *RSS {
	if len(feeds) == 0 {
		feeds = defaultRSSFeeds
	}
	return &RSS{feeds: feeds, client: client, l: l}
}

func (r *RSS) Name() string { return "rss" }

func (r *RSS) Fetch(ctx context.Context, opts repository.FetchOptions) ([]models.NewsItem, error) {
	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = 100
	}

	items := make([]models.NewsItem, 0, len(r.feeds)*maxItemsPerFeed)
	for _, feedURL := range r.feeds {
		var body []byte
		err := r.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    feedURL,
		}, &body)
		if err != nil {
			if r.l != nil {
				r.l.Warn("rss fetch failed",
					applogger.String("feed", feedURL),
					applogger.Error(err),
				)
			}
			continue
		}
		items = append(items, parseFeed(feedURL, string(body))...)
		if len(items) >= maxItems {
			break
		}
	}
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, nil
}

func parseFeed(feedURL, body string) []models.NewsItem {
	titles := matchAll(rssTitleRe, body)
	links := matchAll(rssLinkRe, body)
	dates := matchAll(rssDateRe, body)

	n := len(titles)
	if len(links) < n {
		n = len(links)
	}
	if n > maxItemsPerFeed {
		n = maxItemsPerFeed
	}

	host := feedURL
	if u, err := url.Parse(feedURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}

	out := make([]models.NewsItem, 0, n)
	for i := 0; i < n; i++ {
		title := strings.TrimSpace(titles[i])
		link := strings.TrimSpace(links[i])
		if title == "" || link == "" {
			continue
		}
		date := util.Today()
		if i < len(dates) {
			if d, err := parsePubDate(dates[i]); err == nil {
				date = util.FormatDate(d)
			}
		}
		out = append(out, models.NewsItem{
			ID:      hashID(feedURL + "_" + title),
			Date:    date,
			Source:  host,
			URL:     link,
			Title:   title,
			Symbols: []string{},
		})
	}
	return out
}

func matchAll(re *regexp.Regexp, body string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		v := m[1]
		if v == "" && len(m) > 2 {
			v = m[2]
		}
		out = append(out, v)
	}
	return out
}

func parsePubDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC1123Z, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC1123, s)
}
