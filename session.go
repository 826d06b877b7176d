package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

var ErrCatalogsNotLoaded = errors.New("trade catalogs are not loaded")

// CatalogFetcher downloads raw stats and items catalogs.
type CatalogFetcher interface {
	FetchCatalogs(ctx context.Context) (stats, items []byte, err error)
}

// Session owns the catalogs used for parsing. Catalogs are replaced as a
// whole on Reload; parses in flight keep the indexes they started with.
type Session struct {
	cfg      Config
	fetcher  CatalogFetcher
	catalogs atomic.Pointer[Catalogs]
	queries  *lru.Cache
}

type queryKey struct {
	catalogs *Catalogs
	text     string
}

type queryEntry struct {
	filters *TradeFilters
	query   *TradeQuery
}

// NewSession creates a session with an empty query cache. Catalogs must be
// loaded with Reload or Swap before items can be parsed.
func NewSession(cfg Config, fetcher CatalogFetcher) (*Session, error) {
	cache, err := lru.New(cfg.Cache.Size)
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}
	return &Session{cfg: cfg, fetcher: fetcher, queries: cache}, nil
}

// Reload builds fresh catalogs from the configured files, or from the trade
// API when no files are configured, and swaps them in.
func (s *Session) Reload(ctx context.Context) error {
	start := time.Now()
	var (
		cats   *Catalogs
		err    error
		source string
	)
	if s.cfg.Catalog.StatsPath != "" && s.cfg.Catalog.ItemsPath != "" {
		source = "files"
		cats, err = LoadCatalogFiles(s.cfg.Catalog.StatsPath, s.cfg.Catalog.ItemsPath)
	} else {
		if s.fetcher == nil {
			return errors.New("no catalog paths configured and no trade client available")
		}
		source = "trade api"
		var stats, items []byte
		stats, items, err = s.fetcher.FetchCatalogs(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch trade site catalogs: %w", err)
		}
		cats, err = LoadCatalogs(stats, items)
	}
	if err != nil {
		return err
	}

	s.Swap(cats)
	log.Info().
		Str("source", source).
		Int("stats", cats.Mods.Len()).
		Int("base_types", cats.BaseTypes.Len()).
		Str("category_table", CategoryTableVersion()).
		Dur("took", time.Since(start)).
		Msg("trade catalogs loaded")
	return nil
}

// Swap installs already built catalogs.
func (s *Session) Swap(cats *Catalogs) {
	s.catalogs.Store(cats)
	s.queries.Purge()
}

// Catalogs returns the current catalogs, or nil before the first load.
func (s *Session) Catalogs() *Catalogs {
	return s.catalogs.Load()
}

// Parse parses tooltip text against the current catalogs and applies the
// configured filter defaults.
func (s *Session) Parse(text string) (*TradeFilters, error) {
	cats := s.catalogs.Load()
	if cats == nil {
		return nil, ErrCatalogsNotLoaded
	}
	return s.parseWith(cats, text)
}

func (s *Session) parseWith(cats *Catalogs, text string) (*TradeFilters, error) {
	f, err := ParseItemText(text, cats.Mods, cats.BaseTypes)
	if err != nil {
		return nil, err
	}
	f.OnlineOnly.Enabled = s.cfg.Filters.OnlineOnly
	f.Price.Option = s.cfg.Filters.PriceOption
	if s.cfg.Trade.League != "" {
		f.League = textFilter(s.cfg.Trade.League)
	}
	if s.cfg.Filters.ListedTime != "" {
		f.ListedTime = textFilter(s.cfg.Filters.ListedTime)
	}
	return f, nil
}

// Query parses text and builds its trade query. Results are remembered per
// catalog generation, so pressing the hotkey twice on the same item is free.
// The returned values are shared and must not be modified.
func (s *Session) Query(text string) (*TradeQuery, *TradeFilters, error) {
	cats := s.catalogs.Load()
	if cats == nil {
		return nil, nil, ErrCatalogsNotLoaded
	}
	key := queryKey{catalogs: cats, text: text}
	if v, ok := s.queries.Get(key); ok {
		e := v.(queryEntry)
		return e.query, e.filters, nil
	}

	f, err := s.parseWith(cats, text)
	if err != nil {
		return nil, nil, err
	}
	q := BuildTradeQuery(f)
	s.queries.Add(key, queryEntry{filters: f, query: q})
	log.Debug().
		Int("explicit", len(f.ExplicitMods)).
		Int("implicit", len(f.ImplicitMods)).
		Int("rune", len(f.RuneMods)).
		Msg("item parsed")
	return q, f, nil
}

// LooksLikeItem is a cheap check run on clipboard text before parsing;
// anything shorter than four lines cannot be an item tooltip.
func LooksLikeItem(text string) bool {
	return strings.Count(strings.TrimSpace(text), "\n")+1 >= 4
}
