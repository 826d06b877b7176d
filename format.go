package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatFilters renders a parsed item as a plain-text table.
func FormatFilters(f *TradeFilters) string {
	var b strings.Builder

	for _, t := range []struct {
		label  string
		filter *TextFilter
	}{
		{"Category", f.ItemCategory},
		{"Name", f.ItemName},
		{"Base type", f.ItemBaseType},
		{"Rarity", f.Rarity},
	} {
		if t.filter != nil {
			fmt.Fprintf(&b, "%-22s %s%s\n", t.label, t.filter.Text, disabledMark(t.filter.Enabled))
		}
	}

	for _, r := range []struct {
		label  string
		filter *RangeFilter
	}{
		{"Item level", f.ItemLevel},
		{"Physical DPS", f.PhysicalDPS},
		{"Elemental DPS", f.ElementalDPS},
		{"Total DPS", f.TotalDPS},
		{"Attacks per second", f.AttackSpeed},
		{"Critical hit chance", f.CriticalChance},
		{"Sockets", f.SocketCount},
		{"Armour", f.Armour},
		{"Energy shield", f.EnergyShield},
		{"Evasion", f.Evasion},
		{"Spirit", f.Spirit},
		{"Block chance", f.BlockChance},
		{"Waystone drop chance", f.WaystoneDropChance},
	} {
		if r.filter != nil {
			fmt.Fprintf(&b, "%-22s %s%s\n", r.label, formatRange(r.filter.Min, r.filter.Max), disabledMark(r.filter.Enabled))
		}
	}

	for _, group := range []struct {
		label string
		mods  []StatFilter
	}{
		{"Implicit", f.ImplicitMods},
		{"Rune", f.RuneMods},
		{"Explicit", f.ExplicitMods},
	} {
		if len(group.mods) == 0 {
			continue
		}
		b.WriteString("--------\n")
		for _, m := range group.mods {
			fmt.Fprintf(&b, "%-9s %-48s %10s  %s%s\n",
				group.label, m.Text, formatRange(m.Value.Min, m.Value.Max), m.ID, disabledMark(m.Enabled))
		}
	}
	return b.String()
}

// FormatListings renders fetched listings cheapest first, as returned, each
// followed by its mod lines.
func FormatListings(listings []Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-40s %6s %8s %-20s\n", "Price", "Item", "iLvl", "DPS", "Seller")
	fmt.Fprintf(&b, "%-12s %-40s %6s %8s %-20s\n", "------------", strings.Repeat("-", 40), "------", "--------", strings.Repeat("-", 20))
	for _, l := range listings {
		name := strings.TrimSpace(l.Name + " " + l.TypeLine)
		price := formatNumber(l.Amount) + " " + l.Currency
		dps := "-"
		if l.TotalDPS > 0 {
			dps = formatNumber(l.TotalDPS)
		}
		fmt.Fprintf(&b, "%-12s %-40s %6d %8s %-20s\n", price, name, l.ItemLvl, dps, l.Account)

		for _, group := range []struct {
			tag  string
			mods []string
		}{
			{"implicit", l.ImplicitMods},
			{"rune", l.RuneMods},
			{"", l.ExplicitMods},
		} {
			for _, m := range group.mods {
				if group.tag != "" {
					m += " (" + group.tag + ")"
				}
				fmt.Fprintf(&b, "%12s %s\n", "", m)
			}
		}
	}
	return b.String()
}

func formatRange(lo, hi *float64) string {
	switch {
	case lo != nil && hi != nil:
		return formatNumber(*lo) + "-" + formatNumber(*hi)
	case lo != nil:
		return formatNumber(*lo) + "+"
	case hi != nil:
		return "<=" + formatNumber(*hi)
	}
	return "any"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(toFixed2(v), 'f', -1, 64)
}

func toFixed2(v float64) float64 {
	return math.Round(v*100) / 100
}

func disabledMark(enabled bool) string {
	if enabled {
		return ""
	}
	return " (off)"
}
