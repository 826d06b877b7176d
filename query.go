package main

import "strings"

const defaultLeague = "Standard"

// TradeQuery is the request body of the trade search endpoint. Field names
// and nesting follow the trade site's schema and must not be renamed.
type TradeQuery struct {
	Query  Query             `json:"query"`
	Sort   map[string]string `json:"sort"`
	League string            `json:"league"`
}

// Query is the "query" object of a trade search.
type Query struct {
	Status  StringOption `json:"status"`
	Name    string       `json:"name,omitempty"`
	Type    string       `json:"type,omitempty"`
	Stats   []StatGroup  `json:"stats"`
	Filters QueryFilters `json:"filters"`
}

// StringOption is the {"option": "..."} shape.
type StringOption struct {
	Option string `json:"option"`
}

// BoolOption is the {"option": true} shape.
type BoolOption struct {
	Option bool `json:"option"`
}

// RangeValue is the {"min": x, "max": y} shape; unset bounds encode as null.
type RangeValue struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// PriceValue is the price sub-filter of trade_filters.
type PriceValue struct {
	Option string   `json:"option"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

// StatGroup is one boolean group of stat clauses.
type StatGroup struct {
	Type     string       `json:"type"`
	Filters  []StatClause `json:"filters"`
	Disabled bool         `json:"disabled"`
}

// StatClause matches one stat id. Value is a RangeValue when the affix
// carried numbers, otherwise a BoolOption asking only for presence.
type StatClause struct {
	ID       string `json:"id"`
	Disabled bool   `json:"disabled"`
	Value    any    `json:"value"`
}

// FilterGroup wraps every filter block of the "filters" object.
type FilterGroup[T any] struct {
	Filters  T    `json:"filters"`
	Disabled bool `json:"disabled"`
}

// QueryFilters holds the optional filter blocks; trade_filters is always sent.
type QueryFilters struct {
	TypeFilters      *FilterGroup[TypeFilters]      `json:"type_filters,omitempty"`
	MiscFilters      *FilterGroup[MiscFilters]      `json:"misc_filters,omitempty"`
	EquipmentFilters *FilterGroup[EquipmentFilters] `json:"equipment_filters,omitempty"`
	MapFilters       *FilterGroup[MapFilters]       `json:"map_filters,omitempty"`
	TradeFilters     FilterGroup[TradeFilterSet]    `json:"trade_filters"`
}

// TypeFilters narrows the search to one item category.
type TypeFilters struct {
	Category StringOption `json:"category"`
}

// MiscFilters carries the item level bound.
type MiscFilters struct {
	ItemLevel RangeValue `json:"ilvl"`
}

// EquipmentFilters holds rarity and the weapon and defence properties.
// Unset properties are omitted.
type EquipmentFilters struct {
	Rarity       string      `json:"rarity,omitempty"`
	PhysicalDPS  *RangeValue `json:"pdps,omitempty"`
	ElementalDPS *RangeValue `json:"edps,omitempty"`
	TotalDPS     *RangeValue `json:"dps,omitempty"`
	AttackSpeed  *RangeValue `json:"aps,omitempty"`
	RuneSockets  *RangeValue `json:"rune_sockets,omitempty"`
	Armour       *RangeValue `json:"ar,omitempty"`
	EnergyShield *RangeValue `json:"es,omitempty"`
	Evasion      *RangeValue `json:"ev,omitempty"`
	Spirit       *RangeValue `json:"spirit,omitempty"`
	Block        *RangeValue `json:"block,omitempty"`
}

// MapFilters carries the waystone drop chance bound.
type MapFilters struct {
	MapBonus RangeValue `json:"map_bonus"`
}

// TradeFilterSet holds the listing constraints; collapse is always sent.
type TradeFilterSet struct {
	Collapse BoolOption    `json:"collapse"`
	Price    *PriceValue   `json:"price,omitempty"`
	Indexed  *StringOption `json:"indexed,omitempty"`
}

// BuildTradeQuery serializes a filter model into a trade search request.
// It never fails; an empty model yields a minimal valid query.
func BuildTradeQuery(f *TradeFilters) *TradeQuery {
	q := Query{
		Status: StringOption{Option: "any"},
		Stats: []StatGroup{{
			Type:    "and",
			Filters: statClauses(f),
		}},
	}
	if f.OnlineOnly.Enabled {
		q.Status.Option = "online"
	}

	if enabledText(f.ItemCategory) {
		q.Filters.TypeFilters = &FilterGroup[TypeFilters]{
			Filters: TypeFilters{Category: StringOption{Option: strings.ToLower(f.ItemCategory.Text)}},
		}
	}

	// Uniques are searched by name, everything else by base type.
	if enabledText(f.ItemName) {
		q.Name = f.ItemName.Text
	} else if enabledText(f.ItemBaseType) {
		q.Type = f.ItemBaseType.Text
	}

	if enabledRange(f.ItemLevel) {
		q.Filters.MiscFilters = &FilterGroup[MiscFilters]{
			Filters: MiscFilters{ItemLevel: rangeValue(f.ItemLevel)},
		}
	}

	if eq, ok := equipmentFilters(f); ok {
		q.Filters.EquipmentFilters = &FilterGroup[EquipmentFilters]{Filters: eq}
	}

	if enabledRange(f.WaystoneDropChance) {
		q.Filters.MapFilters = &FilterGroup[MapFilters]{
			Filters: MapFilters{MapBonus: rangeValue(f.WaystoneDropChance)},
		}
	}

	trade := TradeFilterSet{Collapse: BoolOption{Option: true}}
	if f.Price.Enabled && f.Price.Option != "" {
		trade.Price = &PriceValue{Option: f.Price.Option, Min: f.Price.Min, Max: f.Price.Max}
	}
	if enabledText(f.ListedTime) {
		trade.Indexed = &StringOption{Option: f.ListedTime.Text}
	}
	q.Filters.TradeFilters = FilterGroup[TradeFilterSet]{Filters: trade}

	league := defaultLeague
	if f.League != nil && f.League.Text != "" {
		league = f.League.Text
	}

	return &TradeQuery{
		Query:  q,
		Sort:   map[string]string{"price": "asc"},
		League: league,
	}
}

func statClauses(f *TradeFilters) []StatClause {
	clauses := make([]StatClause, 0, len(f.ExplicitMods)+len(f.ImplicitMods)+len(f.RuneMods))
	for _, list := range [][]StatFilter{f.ExplicitMods, f.ImplicitMods, f.RuneMods} {
		for _, s := range list {
			if !s.Enabled {
				continue
			}
			c := StatClause{ID: s.ID}
			if s.Value.Min != nil || s.Value.Max != nil {
				c.Value = RangeValue{Min: s.Value.Min, Max: s.Value.Max}
			} else {
				c.Value = BoolOption{Option: true}
			}
			clauses = append(clauses, c)
		}
	}
	return clauses
}

func equipmentFilters(f *TradeFilters) (EquipmentFilters, bool) {
	var eq EquipmentFilters
	added := false
	if enabledText(f.Rarity) && f.Rarity.Text != "" {
		eq.Rarity = f.Rarity.Text
		added = true
	}
	for _, r := range []struct {
		src *RangeFilter
		dst **RangeValue
	}{
		{f.PhysicalDPS, &eq.PhysicalDPS},
		{f.ElementalDPS, &eq.ElementalDPS},
		{f.TotalDPS, &eq.TotalDPS},
		{f.AttackSpeed, &eq.AttackSpeed},
		{f.SocketCount, &eq.RuneSockets},
		{f.Armour, &eq.Armour},
		{f.EnergyShield, &eq.EnergyShield},
		{f.Evasion, &eq.Evasion},
		{f.Spirit, &eq.Spirit},
		{f.BlockChance, &eq.Block},
	} {
		if enabledRange(r.src) {
			v := rangeValue(r.src)
			*r.dst = &v
			added = true
		}
	}
	return eq, added
}

func rangeValue(r *RangeFilter) RangeValue {
	return RangeValue{Min: r.Min, Max: r.Max}
}

func enabledText(t *TextFilter) bool {
	return t != nil && t.Enabled
}

func enabledRange(r *RangeFilter) bool {
	return r != nil && r.Enabled
}
