package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// CatalogShapeError reports a catalog payload that cannot be indexed.
type CatalogShapeError struct {
	Catalog string // "stats" or "items"
	Reason  string
}

func (e *CatalogShapeError) Error() string {
	return fmt.Sprintf("malformed %s catalog: %s", e.Catalog, e.Reason)
}

// ModLookup resolves a normalized affix pattern to a stat id in a namespace.
type ModLookup interface {
	StatID(pattern, namespace string) (string, bool)
}

// BaseTypeLookup finds the base type named somewhere in a block of text.
type BaseTypeLookup interface {
	BaseType(text string) (match, category string, ok bool)
}

// ModLookupFunc adapts a plain function to ModLookup.
type ModLookupFunc func(pattern, namespace string) (string, bool)

func (f ModLookupFunc) StatID(pattern, namespace string) (string, bool) {
	return f(pattern, namespace)
}

// BaseTypeLookupFunc adapts a plain function to BaseTypeLookup.
type BaseTypeLookupFunc func(text string) (string, string, bool)

func (f BaseTypeLookupFunc) BaseType(text string) (string, string, bool) {
	return f(text)
}

// ── Stat patterns ───────────────────────────────────────────────────

// ModPatternIndex maps a canonical stat pattern to every stat id that
// shares it, in catalog order. It is never modified after it is built.
type ModPatternIndex struct {
	ids     map[string][]string
	entries int
}

// BuildModPatternIndex indexes the trade stats catalog:
//
//	{"result":[{"entries":[{"id":"explicit.stat_1","text":"#% increased Physical Damage"}]}]}
//
// Entries without a string id or text are skipped.
func BuildModPatternIndex(statsJSON []byte) (*ModPatternIndex, error) {
	result, err := catalogResult("stats", statsJSON)
	if err != nil {
		return nil, err
	}

	idx := &ModPatternIndex{ids: make(map[string][]string)}
	for i, section := range result.Array() {
		entries := section.Get("entries")
		if !entries.IsArray() {
			return nil, &CatalogShapeError{Catalog: "stats", Reason: fmt.Sprintf("section %d has no entries array", i)}
		}
		entries.ForEach(func(_, e gjson.Result) bool {
			id, text := e.Get("id"), e.Get("text")
			if id.Type != gjson.String || text.Type != gjson.String {
				return true
			}
			pattern := CanonicalPattern(text.String())
			idx.ids[pattern] = append(idx.ids[pattern], id.String())
			idx.entries++
			return true
		})
	}
	return idx, nil
}

// StatID returns the first id for pattern that starts with namespace.
func (idx *ModPatternIndex) StatID(pattern, namespace string) (string, bool) {
	if idx == nil {
		return "", false
	}
	for _, id := range idx.ids[pattern] {
		if strings.HasPrefix(id, namespace) {
			return id, true
		}
	}
	return "", false
}

// Len reports the number of stat ids indexed.
func (idx *ModPatternIndex) Len() int {
	if idx == nil {
		return 0
	}
	return idx.entries
}

// CanonicalPattern resolves catalog markup word by word: brackets are
// dropped and only the last alternative of "a|b" is kept.
//
//	"#% increased [Physical|Physical] Damage" -> "#% increased Physical Damage"
func CanonicalPattern(text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		w = strings.ReplaceAll(w, "[", "")
		w = strings.ReplaceAll(w, "]", "")
		if j := strings.LastIndexByte(w, '|'); j >= 0 {
			w = w[j+1:]
		}
		words[i] = w
	}
	return strings.Join(words, " ")
}

// ── Base types ──────────────────────────────────────────────────────

// BaseTypeIndex maps an exact base type name to its trade category id.
type BaseTypeIndex struct {
	categories map[string]string
	maxWords   int // longest name, in words
}

// BuildBaseTypeIndex indexes the trade items catalog:
//
//	{"result":[{"id":"weapon.crossbow","label":"Crossbows","entries":[{"type":"Bombard Crossbow","flags":{"unique":false}}]}]}
//
// Unique-only entries are not base types and are skipped. A name listed under
// several categories keeps the last one.
func BuildBaseTypeIndex(itemsJSON []byte) (*BaseTypeIndex, error) {
	result, err := catalogResult("items", itemsJSON)
	if err != nil {
		return nil, err
	}

	idx := &BaseTypeIndex{categories: make(map[string]string)}
	for i, category := range result.Array() {
		id := category.Get("id")
		if id.Type != gjson.String {
			return nil, &CatalogShapeError{Catalog: "items", Reason: fmt.Sprintf("category %d has no id", i)}
		}
		entries := category.Get("entries")
		if !entries.IsArray() {
			return nil, &CatalogShapeError{Catalog: "items", Reason: fmt.Sprintf("category %q has no entries array", id.String())}
		}
		entries.ForEach(func(_, e gjson.Result) bool {
			typ := e.Get("type")
			if typ.Type != gjson.String || e.Get("flags.unique").Bool() {
				return true
			}
			name := typ.String()
			idx.categories[name] = id.String()
			if n := len(strings.Fields(name)); n > idx.maxWords {
				idx.maxWords = n
			}
			return true
		})
	}
	return idx, nil
}

// BaseType scans the whitespace-separated words of text for a known base
// type. The earliest starting word wins; for one start, the longest run wins.
//
//	"Deliberate Bombard Crossbow of Mastery" -> "Bombard Crossbow"
func (idx *BaseTypeIndex) BaseType(text string) (string, string, bool) {
	if idx == nil {
		return "", "", false
	}
	words := strings.Fields(text)
	for start := range words {
		longest := min(len(words)-start, idx.maxWords)
		for n := longest; n >= 1; n-- {
			name := strings.Join(words[start:start+n], " ")
			if cat, ok := idx.categories[name]; ok {
				return name, cat, true
			}
		}
	}
	return "", "", false
}

// Len reports the number of base types indexed.
func (idx *BaseTypeIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.categories)
}

func catalogResult(catalog string, raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, &CatalogShapeError{Catalog: catalog, Reason: "invalid JSON"}
	}
	result := gjson.GetBytes(raw, "result")
	if !result.IsArray() {
		return gjson.Result{}, &CatalogShapeError{Catalog: catalog, Reason: "missing result array"}
	}
	return result, nil
}

// ── Catalogs ────────────────────────────────────────────────────────

// Catalogs bundles the two read-only indexes a parse needs.
type Catalogs struct {
	Mods      *ModPatternIndex
	BaseTypes *BaseTypeIndex
}

// LoadCatalogs builds both indexes from raw catalog payloads.
func LoadCatalogs(statsJSON, itemsJSON []byte) (*Catalogs, error) {
	mods, err := BuildModPatternIndex(statsJSON)
	if err != nil {
		return nil, err
	}
	bases, err := BuildBaseTypeIndex(itemsJSON)
	if err != nil {
		return nil, err
	}
	return &Catalogs{Mods: mods, BaseTypes: bases}, nil
}

// LoadCatalogFiles reads and indexes catalogs saved on disk.
func LoadCatalogFiles(statsPath, itemsPath string) (*Catalogs, error) {
	statsBytes, err := os.ReadFile(statsPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", statsPath, err)
	}
	itemsBytes, err := os.ReadFile(itemsPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", itemsPath, err)
	}
	return LoadCatalogs(statsBytes, itemsBytes)
}
