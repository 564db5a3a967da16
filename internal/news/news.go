package news

import "strings"

type Item struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Impact      string `json:"impact,omitempty"` // Low, Medium or High
}

type CalendarItem struct {
	Country string `json:"country"`
	Event   string `json:"event"`
	Impact  string `json:"impact,omitempty"`
	Time    string `json:"time,omitempty"`
}

// Provider serves a canned local feed scored by the impact heuristic. A real
// news API would slot in behind the same methods.
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

// Headlines returns recent items; when a symbol is given a desk note for it
// is placed first.
func (p *Provider) Headlines(symbol string) []Item {
	items := []Item{
		{Title: "ECB commentary hints at path-dependent policy", URL: "#", Source: "DemoWire", PublishedAt: "2025-09-27T07:00:00Z"},
		{Title: "US labor data surprises markets", URL: "#", Source: "DemoWire", PublishedAt: "2025-09-27T06:30:00Z"},
	}
	if symbol != "" {
		lead := Item{Title: symbol + ": Traders eye key levels into close", URL: "#", Source: "Desk", PublishedAt: "2025-09-27T08:00:00Z"}
		items = append([]Item{lead}, items...)
	}
	for i := range items {
		items[i].Impact = scoreImpact(items[i].Title)
	}
	return items
}

// Calendar returns upcoming macro events, optionally filtered by country.
func (p *Provider) Calendar(country string) []CalendarItem {
	items := []CalendarItem{
		{Country: "US", Event: "Nonfarm Payrolls", Impact: "High", Time: "2025-10-03T12:30:00Z"},
		{Country: "EU", Event: "CPI YoY (Flash)", Impact: "High", Time: "2025-10-01T09:00:00Z"},
	}
	if country == "" {
		return items
	}
	filtered := make([]CalendarItem, 0, len(items))
	for _, it := range items {
		if strings.EqualFold(it.Country, country) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

var (
	highImpactKeywords   = []string{"nfp", "nonfarm", "cpi", "inflation", "fomc", "rate", "ecb", "fed", "gdp", "payrolls"}
	mediumImpactKeywords = []string{"pmi", "retail", "claims", "confidence", "ppi", "ifo"}
)

func scoreImpact(title string) string {
	t := strings.ToLower(title)
	for _, kw := range highImpactKeywords {
		if strings.Contains(t, kw) {
			return "High"
		}
	}
	for _, kw := range mediumImpactKeywords {
		if strings.Contains(t, kw) {
			return "Medium"
		}
	}
	return "Low"
}
