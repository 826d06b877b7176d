package main

// Stat namespaces used as id prefixes in the stat catalog.
const (
	NamespaceExplicit = "explicit"
	NamespaceImplicit = "implicit"
	NamespaceRune     = "rune"
)

// TextFilter is an exact-text criterion that the user can toggle.
type TextFilter struct {
	Text    string `json:"text"`
	Enabled bool   `json:"enabled"`
}

// RangeFilter is a numeric criterion. Nil bounds are unset.
type RangeFilter struct {
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	Enabled bool     `json:"enabled"`
}

// StatValue holds the bounds sent with a stat clause.
type StatValue struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// StatFilter is one affix matched against the stat catalog.
type StatFilter struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Enabled bool      `json:"enabled"`
	Value   StatValue `json:"value"`
}

// PriceFilter restricts listings to a currency and price range.
type PriceFilter struct {
	Enabled bool     `json:"enabled"`
	Option  string   `json:"option"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
}

// ToggleFilter is a plain on/off switch.
type ToggleFilter struct {
	Enabled bool `json:"enabled"`
}

// TradeFilters is the filter model produced from one tooltip.
// It is built by ParseItemText and treated as read-only afterwards.
type TradeFilters struct {
	// Base item properties
	ItemCategory *TextFilter  `json:"item_category"`
	ItemName     *TextFilter  `json:"item_name"`
	ItemBaseType *TextFilter  `json:"item_base_type"`
	Rarity       *TextFilter  `json:"rarity"`
	ItemLevel    *RangeFilter `json:"item_level"`

	// Equipment properties
	PhysicalDPS    *RangeFilter `json:"physical_dps"`
	ElementalDPS   *RangeFilter `json:"elemental_dps"`
	TotalDPS       *RangeFilter `json:"total_dps"`
	AttackSpeed    *RangeFilter `json:"attack_speed"`
	CriticalChance *RangeFilter `json:"critical_chance"`
	SocketCount    *RangeFilter `json:"socket_count"`
	Armour         *RangeFilter `json:"armour"`
	EnergyShield   *RangeFilter `json:"energy_shield"`
	Evasion        *RangeFilter `json:"evasion"`
	Spirit         *RangeFilter `json:"spirit"`
	BlockChance    *RangeFilter `json:"block_chance"`

	// Map properties
	WaystoneDropChance *RangeFilter `json:"waystone_drop_chance"`

	ExplicitMods []StatFilter `json:"explicit_mods"`
	ImplicitMods []StatFilter `json:"implicit_mods"`
	RuneMods     []StatFilter `json:"rune_mods"`

	Price      PriceFilter  `json:"price"`
	OnlineOnly ToggleFilter `json:"online_only"`
	League     *TextFilter  `json:"league"`
	ListedTime *TextFilter  `json:"listed_time"`
}

// NewTradeFilters returns an empty model with price and online-only enabled.
func NewTradeFilters() *TradeFilters {
	return &TradeFilters{
		ExplicitMods: []StatFilter{},
		ImplicitMods: []StatFilter{},
		RuneMods:     []StatFilter{},
		Price:        PriceFilter{Enabled: true},
		OnlineOnly:   ToggleFilter{Enabled: true},
	}
}

// statValueFromValues collapses the numbers captured from an affix into a
// single lower bound: the arithmetic mean. Max is always left unset.
// TODO: confirm with product whether ranged affixes should keep both bounds;
// changing this alters every outgoing stat clause.
func statValueFromValues(values []float64) StatValue {
	if len(values) == 0 {
		return StatValue{}
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return StatValue{Min: ptr(sum / float64(len(values)))}
}

func minFilter(v float64) *RangeFilter {
	return &RangeFilter{Min: ptr(v), Enabled: true}
}

func textFilter(s string) *TextFilter {
	return &TextFilter{Text: s, Enabled: true}
}

func ptr(v float64) *float64 {
	return &v
}
