package main

import (
	"fmt"
	"strings"
	"testing"
)

func TestFormatRange(t *testing.T) {
	tests := []struct {
		lo, hi *float64
		want   string
	}{
		{nil, nil, "any"},
		{ptr(54.576), nil, "54.58+"},
		{nil, ptr(5), "<=5"},
		{ptr(1), ptr(2.5), "1-2.5"},
	}
	for _, tt := range tests {
		if got := formatRange(tt.lo, tt.hi); got != tt.want {
			t.Errorf("formatRange = %q, want %q", got, tt.want)
		}
	}
}

func TestFormatFilters(t *testing.T) {
	f := parseFixture(t, "bow.txt")
	f.ExplicitMods[0].Enabled = false
	out := FormatFilters(f)

	for _, want := range []string{
		fmt.Sprintf("%-22s %s", "Category", "weapon.bow"),
		fmt.Sprintf("%-22s %s", "Base type", "Advanced Dualstring Bow"),
		fmt.Sprintf("%-22s %s", "Item level", "58+"),
		fmt.Sprintf("%-22s %s", "Sockets", "2+"),
		fmt.Sprintf("%-9s %s", "Rune", "40% increased Physical Damage"),
		"rune.stat_1509134228",
		"explicit.stat_1509134228 (off)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Armour") {
		t.Errorf("unset armour printed:\n%s", out)
	}
	// implicit, rune and explicit groups
	if n := strings.Count(out, "--------\n"); n != 3 {
		t.Errorf("got %d mod groups, want 3", n)
	}
}

func TestFormatListings(t *testing.T) {
	out := FormatListings([]Listing{
		{
			TypeLine:     "Bombard Crossbow",
			ItemLvl:      35,
			Amount:       2,
			Currency:     "exalted",
			Account:      "seller#1",
			RuneMods:     []string{"40% increased Physical Damage"},
			ExplicitMods: []string{"+105 to Accuracy Rating"},
			TotalDPS:     54.576,
		},
		{TypeLine: "Cultist Crown", ItemLvl: 17, Amount: 1, Currency: "chaos", Account: "seller#2"},
	})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	for i, want := range []string{
		fmt.Sprintf("%-12s %-40s %6d %8s %-20s", "2 exalted", "Bombard Crossbow", 35, "54.58", "seller#1"),
		fmt.Sprintf("%12s %s", "", "40% increased Physical Damage (rune)"),
		fmt.Sprintf("%12s %s", "", "+105 to Accuracy Rating"),
		fmt.Sprintf("%-12s %-40s %6d %8s %-20s", "1 chaos", "Cultist Crown", 17, "-", "seller#2"),
	} {
		if got := lines[i+2]; got != want {
			t.Errorf("line %d = %q, want %q", i+2, got, want)
		}
	}
}
