package symbols

import (
	"sort"
	"strings"
)

// aliases maps a ticker to the lowercase keywords that imply it. A symbol
// matches when any alias occurs as a substring of the text.
var aliases = map[string][]string{
	"AAPL":  {"apple", "iphone", "macbook", "ios"},
	"MSFT":  {"microsoft", "windows", "office", "azure", "teams"},
	"GOOGL": {"google", "alphabet", "android", "youtube"},
	"AMZN":  {"amazon", "aws", "prime video"},
	"META":  {"meta", "facebook", "instagram", "whatsapp"},
	"NVDA":  {"nvidia", "geforce", "cuda"},
	"AMD":   {"amd", "radeon", "epyc"},
	"TSLA":  {"tesla", "elon musk", "model 3", "model y"},
}

// Extract returns the tickers whose aliases occur in text. Matching is
// case-insensitive substring containment with no scoring or disambiguation;
// the result is sorted for determinism.
func Extract(text string) []string {
	t := strings.ToLower(text)
	out := make([]string, 0, 4)
	for sym, keys := range aliases {
		for _, k := range keys {
			if strings.Contains(t, k) {
				out = append(out, sym)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}
