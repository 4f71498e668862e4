package patternsource

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"HammerSentinel/internal/model"
)

// Finviz renders drawn trendlines into the quote page as a JSON blob of
// pixel-space patterns. ChartBars is the ordinal of the most recent bar on
// that rendering; both values are fixed properties of the rendering, not
// tunables.
const (
	finvizChartBars = 500
	finvizBaseURL   = "https://finviz.com"
)

var (
	patternsRe = regexp.MustCompile(`"patterns":\[([^\]]*)\]`)
	rangeRe    = regexp.MustCompile(`"patternsMinRange":([0-9.]+),"patternsMaxRange":([0-9.]+)`)
	symbolRe   = regexp.MustCompile(`quote\.ashx\?t=([A-Z][A-Z.-]*)`)
)

// FinvizSource implements Source by scraping finviz.com quote and screener pages.
type FinvizSource struct {
	BaseURL      string
	CanvasHeight int
	Client       *http.Client
}

// NewFinvizSource creates a source with optional proxy support. canvasHeight
// must match the pixel height finviz rendered the pattern coordinates against.
func NewFinvizSource(canvasHeight int, proxyURL string) *FinvizSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FinvizSource{
		BaseURL:      finvizBaseURL,
		CanvasHeight: canvasHeight,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FinvizSource) Name() string { return "finviz" }

// rawPattern is the JSON shape finviz embeds in the quote page.
type rawPattern struct {
	Kind     int     `json:"kind"`
	Strength float64 `json:"strength"`
	Status   int     `json:"status"`
	Bounces  int     `json:"bounces"`
	X1       int     `json:"x1"`
	Y1       int     `json:"y1"`
	X2       int     `json:"x2"`
	Y2       int     `json:"y2"`
}

// FetchPatterns scrapes the quote page for one symbol. Returns (nil, nil)
// when the page carries no pattern data.
func (f *FinvizSource) FetchPatterns(symbol string) (*model.PatternSet, error) {
	html, err := f.get(fmt.Sprintf("%s/quote.ashx?t=%s", f.BaseURL, url.QueryEscape(symbol)))
	if err != nil {
		return nil, fmt.Errorf("fetch quote page: %w", err)
	}
	return f.parse(symbol, html)
}

func (f *FinvizSource) parse(symbol, html string) (*model.PatternSet, error) {
	pm := patternsRe.FindStringSubmatch(html)
	rm := rangeRe.FindStringSubmatch(html)
	if pm == nil || rm == nil {
		return nil, nil
	}

	var raw []rawPattern
	if err := json.Unmarshal([]byte("["+pm[1]+"]"), &raw); err != nil {
		return nil, fmt.Errorf("decode patterns for %s: %w", symbol, err)
	}

	var minPrice, maxPrice float64
	if _, err := fmt.Sscanf(rm[1], "%f", &minPrice); err != nil {
		return nil, fmt.Errorf("parse min range for %s: %w", symbol, err)
	}
	if _, err := fmt.Sscanf(rm[2], "%f", &maxPrice); err != nil {
		return nil, fmt.Errorf("parse max range for %s: %w", symbol, err)
	}

	set := &model.PatternSet{
		Symbol: symbol,
		Bounds: model.AxisBounds{
			MaxPrice:     maxPrice,
			MinPrice:     minPrice,
			CanvasHeight: f.CanvasHeight,
		},
		ChartBars: finvizChartBars,
	}
	for _, p := range raw {
		kind, ok := mapKind(p.Kind)
		if !ok {
			continue // horizontal levels and wedge composites carry no single line
		}
		status := model.StatusInactive
		if p.Status == 1 {
			status = model.StatusActive
		}
		set.Descriptors = append(set.Descriptors, model.PatternDescriptor{
			Kind:     kind,
			Status:   status,
			Strength: p.Strength,
			Bounces:  p.Bounces,
			Start:    model.PatternEndpoint{X: p.X1, Y: p.Y1},
			End:      model.PatternEndpoint{X: p.X2, Y: p.Y2},
		})
	}
	return set, nil
}

// mapKind translates finviz raw kind codes: 2 is the upper (blue) trendline,
// 3 the lower (pink) one.
func mapKind(kind int) (model.LineKind, bool) {
	switch kind {
	case 2:
		return model.KindUpper, true
	case 3:
		return model.KindLower, true
	default:
		return "", false
	}
}

// Universe fetches the distinct symbols matching the given screener patterns,
// always including the hammer candlestick screen.
func (f *FinvizSource) Universe(screens []string) ([]string, error) {
	filters := make([]string, 0, len(screens)+1)
	for _, s := range screens {
		filters = append(filters, "ta_pattern_"+s)
	}
	filters = append(filters, "ta_candlestick_h")

	seen := make(map[string]bool)
	for _, filter := range filters {
		u := fmt.Sprintf("%s/screener.ashx?v=111&f=cap_midover,sh_avgvol_o1000,%s&ft=4", f.BaseURL, filter)
		html, err := f.get(u)
		if err != nil {
			return nil, fmt.Errorf("fetch screener %s: %w", filter, err)
		}
		for _, m := range symbolRe.FindAllStringSubmatch(html, -1) {
			if sym := m[1]; len(sym) <= 5 {
				seen[sym] = true
			}
		}
	}

	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (f *FinvizSource) get(u string) (string, error) {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body[:min(len(body), 200)])))
	}
	return string(body), nil
}
