package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// APIError is an error envelope returned by the trade API:
//
//	{"error":{"code":2,"message":"Invalid query"}}
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trade api error %d (http %d): %s", e.Code, e.StatusCode, e.Message)
}

// SearchResult is the response of a search request.
type SearchResult struct {
	ID     string
	Total  int
	Result []string
}

// Listing is the part of a fetched listing shown to the user. Mod lines
// have their catalog markup resolved. DPS figures are zero for non-weapons.
type Listing struct {
	ID       string
	Name     string
	TypeLine string
	Rarity   string
	ItemLvl  int
	Amount   float64
	Currency string
	Account  string
	Indexed  time.Time

	ImplicitMods []string
	ExplicitMods []string
	RuneMods     []string

	PhysicalDPS  float64
	ElementalDPS float64
	TotalDPS     float64
}

// TradeClient talks to the trade API over HTTP.
type TradeClient struct {
	baseURL   string
	siteURL   string
	userAgent string
	limit     int
	http      *http.Client
}

// NewTradeClient returns a client for the API rooted at cfg.BaseURL.
func NewTradeClient(cfg TradeConfig) *TradeClient {
	return &TradeClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		siteURL:   strings.TrimRight(cfg.SiteURL, "/"),
		userAgent: cfg.UserAgent,
		limit:     cfg.ResultLimit,
		http:      &http.Client{Timeout: cfg.Timeout()},
	}
}

// FetchCatalogs downloads the stats and items catalogs concurrently.
func (c *TradeClient) FetchCatalogs(ctx context.Context) (stats, items []byte, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := c.get(gctx, "/data/stats")
		if err != nil {
			return fmt.Errorf("stats request failed: %w", err)
		}
		stats = b
		return nil
	})
	g.Go(func() error {
		b, err := c.get(gctx, "/data/items")
		if err != nil {
			return fmt.Errorf("items request failed: %w", err)
		}
		items = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return stats, items, nil
}

// Search submits q and returns the query id with the matching listing ids.
func (c *TradeClient) Search(ctx context.Context, q *TradeQuery) (*SearchResult, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/search/"+url.PathEscape(q.League), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().RawJSON("query", body).Str("league", q.League).Msg("submitting trade search")
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	res := &SearchResult{
		ID:    gjson.GetBytes(resp, "id").String(),
		Total: int(gjson.GetBytes(resp, "total").Int()),
	}
	gjson.GetBytes(resp, "result").ForEach(func(_, v gjson.Result) bool {
		res.Result = append(res.Result, v.String())
		return true
	})
	log.Debug().Str("id", res.ID).Int("total", res.Total).Msg("trade search done")
	return res, nil
}

// FetchListings loads details for the first ids of a search result, up to
// the configured result limit.
func (c *TradeClient) FetchListings(ctx context.Context, queryID string, ids []string) ([]Listing, error) {
	if len(ids) == 0 {
		return nil, errors.New("no results found")
	}
	if len(ids) > c.limit {
		ids = ids[:c.limit]
	}
	path := "/fetch/" + strings.Join(ids, ",")
	if queryID != "" {
		path += "?query=" + url.QueryEscape(queryID)
	}
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch request failed: %w", err)
	}

	var listings []Listing
	gjson.GetBytes(resp, "result").ForEach(func(_, v gjson.Result) bool {
		// Listings removed between search and fetch come back as null.
		if v.Type == gjson.Null {
			return true
		}
		l := Listing{
			ID:       v.Get("id").String(),
			Name:     v.Get("item.name").String(),
			TypeLine: v.Get("item.typeLine").String(),
			Rarity:   v.Get("item.rarity").String(),
			ItemLvl:  int(v.Get("item.ilvl").Int()),
			Amount:   v.Get("listing.price.amount").Float(),
			Currency: v.Get("listing.price.currency").String(),
			Account:  v.Get("listing.account.name").String(),

			ImplicitMods: modLines(v.Get("item.implicitMods")),
			ExplicitMods: modLines(v.Get("item.explicitMods")),
			RuneMods:     modLines(v.Get("item.runeMods")),

			// "extended" is an empty array rather than an object for some items.
			PhysicalDPS:  v.Get("item.extended.pdps").Float(),
			ElementalDPS: v.Get("item.extended.edps").Float(),
			TotalDPS:     v.Get("item.extended.dps").Float(),
		}
		if ts := v.Get("listing.indexed").String(); ts != "" {
			l.Indexed, _ = time.Parse(time.RFC3339, ts)
		}
		listings = append(listings, l)
		return true
	})
	return listings, nil
}

func modLines(mods gjson.Result) []string {
	var lines []string
	for _, m := range mods.Array() {
		if m.Type == gjson.String {
			lines = append(lines, CanonicalPattern(m.String()))
		}
	}
	return lines
}

// SearchURL is the browser link for a search id.
func (c *TradeClient) SearchURL(league, queryID string) string {
	return c.siteURL + "/" + url.PathEscape(league) + "/" + url.PathEscape(queryID)
}

func (c *TradeClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *TradeClient) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("trade api request")

	if err := checkResponse(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// checkResponse rejects bodies that are not JSON objects and unwraps the
// API's error envelope.
func checkResponse(status int, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' || !gjson.ValidBytes(trimmed) {
		return fmt.Errorf("invalid JSON response (http %d): %s", status, truncate(string(trimmed), 200))
	}
	if e := gjson.GetBytes(trimmed, "error"); e.Exists() {
		msg := e.Get("message").String()
		if msg == "" {
			msg = "unknown error"
		}
		return &APIError{StatusCode: status, Code: int(e.Get("code").Int()), Message: msg}
	}
	if status >= 400 {
		return &APIError{StatusCode: status, Message: http.StatusText(status)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
