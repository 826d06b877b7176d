package main

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/tidwall/gjson"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(b)
}

func loadTestCatalogs(t *testing.T) *Catalogs {
	t.Helper()
	cats, err := LoadCatalogFiles(
		filepath.Join("testdata", "stats.json"),
		filepath.Join("testdata", "items.json"),
	)
	if err != nil {
		t.Fatalf("LoadCatalogFiles: %v", err)
	}
	return cats
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// fakeTradeSite serves the catalog, search and fetch endpoints under
// /api/trade2 and records the last search body.
type fakeTradeSite struct {
	t     *testing.T
	stats string
	items string

	mu         sync.Mutex
	lastSearch []byte
	fetchPath  string
}

func (s *fakeTradeSite) recorded() (search []byte, fetchPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSearch, s.fetchPath
}

func (s *fakeTradeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/api/trade2/data/stats":
		io.WriteString(w, s.stats)
	case r.URL.Path == "/api/trade2/data/items":
		io.WriteString(w, s.items)
	case strings.HasPrefix(r.URL.Path, "/api/trade2/search/") && r.Method == http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			s.t.Errorf("read search body: %v", err)
		}
		s.mu.Lock()
		s.lastSearch = body
		s.mu.Unlock()
		io.WriteString(w, `{"id":"Xq9","total":3,"result":["aaa","bbb","ccc"]}`)
	case strings.HasPrefix(r.URL.Path, "/api/trade2/fetch/"):
		s.mu.Lock()
		s.fetchPath = r.URL.Path + "?" + r.URL.RawQuery
		s.mu.Unlock()
		io.WriteString(w, `{"result":[
			{"id":"aaa","listing":{"indexed":"2025-01-02T03:04:05Z","account":{"name":"seller#1"},"price":{"amount":5,"currency":"exalted"}},"item":{"name":"Horror Thunder","typeLine":"Advanced Dualstring Bow","rarity":"Rare","ilvl":58,"implicitMods":["Bow [Attack|Attacks] fire an additional Arrow"],"explicitMods":["28% increased [Physical] Damage","Adds 10 to 19 [Physical|Physical] Damage"],"runeMods":null,"extended":{"dps":176.4,"pdps":132.6,"edps":43.8}}},
			null,
			{"id":"ccc","listing":{"account":{"name":"seller#2"},"price":{"amount":1.5,"currency":"divine"}},"item":{"name":"","typeLine":"Advanced Dualstring Bow","ilvl":60,"extended":[]}}
		]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":{"code":1,"message":"Resource not found"}}`)
	}
}

func newFakeTradeSite(t *testing.T) (*fakeTradeSite, *httptest.Server) {
	t.Helper()
	site := &fakeTradeSite{
		t:     t,
		stats: readFixture(t, "stats.json"),
		items: readFixture(t, "items.json"),
	}
	srv := httptest.NewServer(site)
	t.Cleanup(srv.Close)
	return site, srv
}

func testTradeConfig(baseURL string) TradeConfig {
	cfg := DefaultConfig().Trade
	cfg.BaseURL = baseURL
	cfg.SiteURL = "https://trade.example/search/poe2"
	return cfg
}

// TestEndToEnd fetches catalogs from a fake trade site, turns a tooltip into
// a query, submits it and reads back the listings.
func TestEndToEnd(t *testing.T) {
	site, srv := newFakeTradeSite(t)

	cfg := DefaultConfig()
	cfg.Trade = testTradeConfig(srv.URL + "/api/trade2")
	cfg.Trade.League = "Dawn of the Hunt"
	client := NewTradeClient(cfg.Trade)

	sess, err := NewSession(cfg, client)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	ctx := context.Background()
	if err := sess.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	text := readFixture(t, "bow.txt")
	if !LooksLikeItem(text) {
		t.Fatal("bow tooltip not recognised as an item")
	}
	query, filters, err := sess.Query(text)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got := len(filters.ExplicitMods) + len(filters.ImplicitMods) + len(filters.RuneMods); got != 8 {
		t.Errorf("got %d mods, want 8", got)
	}

	res, err := client.Search(ctx, query)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.ID != "Xq9" || res.Total != 3 || len(res.Result) != 3 {
		t.Errorf("search result = %+v", res)
	}

	body, _ := site.recorded()
	for _, tc := range []struct{ path, want string }{
		{"league", "Dawn of the Hunt"},
		{"query.type", "Advanced Dualstring Bow"},
		{"query.status.option", "online"},
		{"query.filters.type_filters.filters.category.option", "weapon.bow"},
		{"query.filters.equipment_filters.filters.rarity", "Rare"},
		{"sort.price", "asc"},
	} {
		if got := gjson.GetBytes(body, tc.path).String(); got != tc.want {
			t.Errorf("%s = %q, want %q", tc.path, got, tc.want)
		}
	}
	if n := gjson.GetBytes(body, "query.stats.0.filters.#").Int(); n != 8 {
		t.Errorf("got %d stat clauses, want 8", n)
	}
	if got := gjson.GetBytes(body, "query.filters.misc_filters.filters.ilvl.min").Float(); got != 58 {
		t.Errorf("ilvl.min = %v, want 58", got)
	}

	listings, err := client.FetchListings(ctx, res.ID, res.Result)
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if _, fetchPath := site.recorded(); fetchPath != "/api/trade2/fetch/aaa,bbb,ccc?query=Xq9" {
		t.Errorf("fetch path = %q", fetchPath)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if listings[0].Account != "seller#1" || listings[0].Amount != 5 || listings[0].Currency != "exalted" {
		t.Errorf("first listing = %+v", listings[0])
	}
	first := listings[0]
	if first.Rarity != "Rare" || first.TotalDPS != 176.4 || first.PhysicalDPS != 132.6 || first.ElementalDPS != 43.8 {
		t.Errorf("first listing rarity %q dps %v/%v/%v", first.Rarity, first.TotalDPS, first.PhysicalDPS, first.ElementalDPS)
	}
	if len(first.ExplicitMods) != 2 || first.ExplicitMods[1] != "Adds 10 to 19 Physical Damage" {
		t.Errorf("first listing explicit mods = %q", first.ExplicitMods)
	}
	if len(first.ImplicitMods) != 1 || first.ImplicitMods[0] != "Bow Attacks fire an additional Arrow" || first.RuneMods != nil {
		t.Errorf("first listing implicit %q rune %q", first.ImplicitMods, first.RuneMods)
	}
	if second := listings[1]; second.TotalDPS != 0 || second.ExplicitMods != nil {
		t.Errorf("second listing dps %v mods %q, want none", second.TotalDPS, second.ExplicitMods)
	}
	if listings[0].Indexed.IsZero() {
		t.Error("first listing has no indexed time")
	}
	if !listings[1].Indexed.IsZero() {
		t.Errorf("second listing indexed = %v, want zero", listings[1].Indexed)
	}

	table := FormatListings(listings)
	for _, want := range []string{
		"Horror Thunder Advanced Dualstring Bow",
		"5 exalted",
		"1.5 divine",
		"seller#2",
		"176.4",
		"28% increased Physical Damage\n",
		"Bow Attacks fire an additional Arrow (implicit)",
	} {
		if !strings.Contains(table, want) {
			t.Errorf("listing table missing %q:\n%s", want, table)
		}
	}

	if got, want := client.SearchURL(query.League, res.ID), "https://trade.example/search/poe2/Dawn%20of%20the%20Hunt/Xq9"; got != want {
		t.Errorf("SearchURL = %q, want %q", got, want)
	}
}
