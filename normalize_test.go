package main

import (
	"slices"
	"testing"
)

func TestNormalizeMod(t *testing.T) {
	tests := []struct {
		text       string
		wantText   string
		wantValues []float64
	}{
		{"42% increased Physical Damage", "#% increased Physical Damage", []float64{42}},
		{"Adds 6 to 11 Physical Damage", "Adds # to # Physical Damage", []float64{6, 11}},
		{"+80 to Accuracy Rating", "# to Accuracy Rating", []float64{80}},
		{"12% increased Attack Speed", "#% increased Attack Speed", []float64{12}},
		{"Bow Attacks fire an additional Arrow", "Bow Attacks fire # additional Arrows", []float64{1}},
		{"Leeches 5.85% of Physical Damage as Mana", "Leeches #% of Physical Damage as Mana", []float64{5.85}},
		{"You cannot be Chilled for 6 seconds after being Chilled", "You cannot be Chilled for # second after being Chilled", []float64{6}},
		{"-3 to maximum Rage", "# to maximum Rage", []float64{-3}},
		{"You can apply an additional Curse", "You can apply # additional Curses", []float64{1}},
		// Grenade wording is catalogued as-is.
		{"Grenade Skills Fire an additional Projectile", "Grenade Skills Fire an additional Projectile", []float64{1}},
		{"Has no Sockets", "Has no Sockets", nil},
		// a token the number pattern accepts but cannot be read
		{"Gain +-3 Life", "Gain # Life", []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			gotText, gotValues := NormalizeMod(tt.text)
			if gotText != tt.wantText {
				t.Errorf("text = %q, want %q", gotText, tt.wantText)
			}
			if !slices.Equal(gotValues, tt.wantValues) {
				t.Errorf("values = %v, want %v", gotValues, tt.wantValues)
			}
		})
	}
}

func TestNormalizeModAilmentOnlyFixesAilments(t *testing.T) {
	got, _ := NormalizeMod("Buff lasts for 4 seconds")
	if got != "Buff lasts for # seconds" {
		t.Errorf("got %q, want plural kept", got)
	}
}
