package main

import "testing"

func TestMapItemCategory(t *testing.T) {
	tests := map[string]string{
		"Bows":         "weapon.bow",
		"Crossbows":    "weapon.crossbow",
		"Body Armours": "armour.chest",
		"HELMETS":      "armour.helmet",
		"Boots":        "armour.boots",
		"Skill Gems":   "gem",
		"Trinkets":     "trinkets",
	}
	for class, want := range tests {
		if got := MapItemCategory(class); got != want {
			t.Errorf("MapItemCategory(%q) = %q, want %q", class, got, want)
		}
	}
}

func TestCategoryTable(t *testing.T) {
	if CategoryTableVersion() == "" {
		t.Error("embedded category table has no version")
	}
	for class, cat := range itemCategories.Categories {
		if cat == "" {
			t.Errorf("class %q maps to an empty category", class)
		}
	}

	if _, err := loadCategoryTable([]byte("version: \"2\"\ncategories: {}\n")); err == nil {
		t.Error("empty table accepted")
	}
	if _, err := loadCategoryTable([]byte("categories: [")); err == nil {
		t.Error("invalid YAML accepted")
	}
	tbl, err := loadCategoryTable([]byte("version: \"2\"\ncategories:\n  wands: weapon.wand\n"))
	if err != nil {
		t.Fatalf("loadCategoryTable: %v", err)
	}
	if tbl.Categories["wands"] != "weapon.wand" {
		t.Errorf("wands = %q", tbl.Categories["wands"])
	}
}
