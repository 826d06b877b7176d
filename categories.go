package main

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesYAML []byte

type categoryTable struct {
	Version    string            `yaml:"version"`
	Categories map[string]string `yaml:"categories"`
}

var itemCategories = mustLoadCategoryTable(categoriesYAML)

func loadCategoryTable(raw []byte) (categoryTable, error) {
	var t categoryTable
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return categoryTable{}, fmt.Errorf("decode category table: %w", err)
	}
	if len(t.Categories) == 0 {
		return categoryTable{}, fmt.Errorf("category table %q is empty", t.Version)
	}
	return t, nil
}

func mustLoadCategoryTable(raw []byte) categoryTable {
	t, err := loadCategoryTable(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// MapItemCategory maps an "Item Class:" value such as "Body Armours" to a
// trade category id. Unknown classes fall back to their lower-cased name.
func MapItemCategory(itemClass string) string {
	key := strings.ToLower(itemClass)
	if cat, ok := itemCategories.Categories[key]; ok {
		return cat
	}
	return key
}

// CategoryTableVersion is the version of the embedded item class table.
func CategoryTableVersion() string {
	return itemCategories.Version
}
