package main

import (
	"fmt"
	"strconv"
	"strings"
)

const sectionDelimiter = "--------"

// ItemFormatErrorKind classifies why a tooltip could not be parsed.
type ItemFormatErrorKind int

const (
	MissingSection ItemFormatErrorKind = iota + 1
	InvalidHeaderShape
	MissingRarity
	UnsupportedRarity
	MalformedField
)

func (k ItemFormatErrorKind) String() string {
	switch k {
	case MissingSection:
		return "missing section"
	case InvalidHeaderShape:
		return "invalid header shape"
	case MissingRarity:
		return "missing rarity"
	case UnsupportedRarity:
		return "unsupported rarity"
	case MalformedField:
		return "malformed field"
	}
	return "unknown"
}

// ItemFormatError aborts a parse. Field names the offending property and
// Value carries the raw text that was rejected.
type ItemFormatError struct {
	Kind  ItemFormatErrorKind
	Field string
	Value string
}

func (e *ItemFormatError) Error() string {
	switch e.Kind {
	case MissingSection:
		return "invalid item format: missing body section"
	case InvalidHeaderShape:
		return fmt.Sprintf("invalid item format: header should be between 2 and 4 lines, got %s", e.Value)
	case MissingRarity:
		return fmt.Sprintf("invalid item format: missing rarity in %q", e.Value)
	case UnsupportedRarity:
		return fmt.Sprintf("unsupported rarity: %s", e.Value)
	case MalformedField:
		return fmt.Sprintf("failed to parse %s: %q", e.Field, e.Value)
	}
	return "invalid item format"
}

// Is matches any ItemFormatError of the same kind, so callers can use
// errors.Is(err, ErrUnsupportedRarity).
func (e *ItemFormatError) Is(target error) bool {
	t, ok := target.(*ItemFormatError)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissingSection     = &ItemFormatError{Kind: MissingSection}
	ErrInvalidHeaderShape = &ItemFormatError{Kind: InvalidHeaderShape}
	ErrMissingRarity      = &ItemFormatError{Kind: MissingRarity}
	ErrUnsupportedRarity  = &ItemFormatError{Kind: UnsupportedRarity}
	ErrMalformedField     = &ItemFormatError{Kind: MalformedField}
)

// numericField is a body property read as a single number into a range
// filter's lower bound.
type numericField struct {
	prefix string
	name   string
	target func(f *TradeFilters) **RangeFilter
}

var numericFields = []numericField{
	{"Waystone Drop Chance: ", "waystone drop chance", func(f *TradeFilters) **RangeFilter { return &f.WaystoneDropChance }},
	{"Block chance: ", "block chance", func(f *TradeFilters) **RangeFilter { return &f.BlockChance }},
	{"Spirit: ", "spirit", func(f *TradeFilters) **RangeFilter { return &f.Spirit }},
	{"Item Level: ", "item level", func(f *TradeFilters) **RangeFilter { return &f.ItemLevel }},
	{"Armour: ", "armour", func(f *TradeFilters) **RangeFilter { return &f.Armour }},
	{"Energy Shield: ", "energy shield", func(f *TradeFilters) **RangeFilter { return &f.EnergyShield }},
	{"Evasion Rating: ", "evasion rating", func(f *TradeFilters) **RangeFilter { return &f.Evasion }},
	{"Critical Hit Chance: ", "critical hit chance", func(f *TradeFilters) **RangeFilter { return &f.CriticalChance }},
	{"Attacks per Second: ", "attack speed", func(f *TradeFilters) **RangeFilter { return &f.AttackSpeed }},
}

// Body lines with these prefixes are item metadata, never affixes.
var metadataPrefixes = []string{
	"Requirements:",
	"Level:",
	"Str:",
	"Dex:",
	"Reload Time:",
	"Sockets:",
	"Quality:",
}

// ParseItemText builds a filter model from text copied out of an item
// tooltip. Affix lines that do not resolve to a stat id are dropped; only
// structural problems and unreadable numeric properties return an error.
func ParseItemText(text string, mods ModLookup, bases BaseTypeLookup) (*TradeFilters, error) {
	header, body, ok := strings.Cut(text, sectionDelimiter)
	if !ok {
		return nil, &ItemFormatError{Kind: MissingSection}
	}

	f := NewTradeFilters()
	if err := parseHeader(f, splitLines(header), text, bases); err != nil {
		return nil, err
	}

	var avgPhys, avgEle *float64
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == sectionDelimiter {
			continue
		}
		handled, err := parseNumericField(f, line)
		if err != nil {
			return nil, err
		}
		if handled {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "Sockets: "); ok {
			f.SocketCount = minFilter(float64(len(strings.Fields(rest))))
		} else if rest, ok := strings.CutPrefix(line, "Physical Damage: "); ok {
			if avg, ok := averageDamage(rest); ok {
				avgPhys = &avg
			}
		} else if rest, ok := strings.CutPrefix(line, "Elemental Damage: "); ok {
			if avg, ok := averageDamage(rest); ok {
				avgEle = &avg
			}
		} else if strings.HasSuffix(line, "(implicit)") {
			modText := strings.TrimSpace(strings.TrimSuffix(line, "(implicit)"))
			f.ImplicitMods = appendStat(f.ImplicitMods, mods, modText, NamespaceImplicit)
		} else if strings.HasSuffix(line, "(rune)") {
			modText := strings.TrimSpace(strings.TrimSuffix(line, "(rune)"))
			f.RuneMods = appendStat(f.RuneMods, mods, modText, NamespaceRune)
		} else if !hasAnyPrefix(line, metadataPrefixes) {
			f.ExplicitMods = appendStat(f.ExplicitMods, mods, line, NamespaceExplicit)
		}
	}

	applyDPS(f, avgPhys, avgEle)
	return f, nil
}

func parseHeader(f *TradeFilters, lines []string, fullText string, bases BaseTypeLookup) error {
	if len(lines) < 2 || len(lines) > 4 {
		return &ItemFormatError{Kind: InvalidHeaderShape, Value: strconv.Itoa(len(lines))}
	}

	// An optional "Item Class:" line precedes the rarity.
	rarityLine := lines[1]
	if len(lines) == 2 {
		rarityLine = lines[0]
	}
	rarity, ok := strings.CutPrefix(rarityLine, "Rarity: ")
	if !ok {
		return &ItemFormatError{Kind: MissingRarity, Field: "rarity", Value: rarityLine}
	}

	switch rarity {
	case "Currency":
		// Currency has no rarity facet on the trade site.
		if len(lines) == 3 {
			f.ItemBaseType = textFilter(lines[2])
		} else {
			f.ItemBaseType = textFilter(lines[1])
		}
	case "Unique":
		if len(lines) < 3 {
			return &ItemFormatError{Kind: InvalidHeaderShape, Value: strconv.Itoa(len(lines))}
		}
		f.Rarity = textFilter(rarity)
		f.ItemName = textFilter(lines[2])
	case "Rare", "Magic", "Normal":
		f.Rarity = textFilter(rarity)
		if class, ok := strings.CutPrefix(lines[0], "Item Class: "); ok {
			f.ItemCategory = textFilter(MapItemCategory(class))
		}
		if len(lines) == 4 {
			f.ItemBaseType = textFilter(lines[3])
		} else if bases != nil {
			// Magic names wrap the base type in affix words.
			if base, _, ok := bases.BaseType(fullText); ok {
				f.ItemBaseType = textFilter(base)
			}
		}
	default:
		return &ItemFormatError{Kind: UnsupportedRarity, Field: "rarity", Value: rarity}
	}
	return nil
}

func parseNumericField(f *TradeFilters, line string) (bool, error) {
	for _, nf := range numericFields {
		raw, ok := strings.CutPrefix(line, nf.prefix)
		if !ok {
			continue
		}
		v, ok := leadingNumber(raw)
		if !ok {
			return true, &ItemFormatError{Kind: MalformedField, Field: nf.name, Value: raw}
		}
		*nf.target(f) = minFilter(v)
		return true, nil
	}
	return false, nil
}

// leadingNumber reads values such as "+15%", "5.00% (augmented)" or
// "1.85 (augmented)".
func leadingNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "% (augmented)")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSuffix(s, " (augmented)")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "%"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// averageDamage reads "12-47" or "64-118 (augmented)". Anything else,
// including multi-element lists, is not a usable range.
func averageDamage(raw string) (float64, bool) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return 0, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, false
	}
	hiFields := strings.Fields(parts[1])
	if len(hiFields) == 0 {
		return 0, false
	}
	hi, err := strconv.ParseFloat(hiFields[0], 64)
	if err != nil {
		return 0, false
	}
	return (lo + hi) / 2, true
}

// applyDPS derives dps filters once the whole body has been read, since
// damage and attack speed lines can come in any order.
func applyDPS(f *TradeFilters, avgPhys, avgEle *float64) {
	if f.AttackSpeed != nil && f.AttackSpeed.Min != nil {
		aps := *f.AttackSpeed.Min
		if avgPhys != nil {
			f.PhysicalDPS = minFilter(*avgPhys * aps)
		}
		if avgEle != nil {
			f.ElementalDPS = minFilter(*avgEle * aps)
		}
	}
	if f.PhysicalDPS == nil && f.ElementalDPS == nil {
		return
	}
	total := 0.0
	if f.PhysicalDPS != nil {
		total += *f.PhysicalDPS.Min
	}
	if f.ElementalDPS != nil {
		total += *f.ElementalDPS.Min
	}
	f.TotalDPS = minFilter(total)
}

func appendStat(list []StatFilter, mods ModLookup, text, namespace string) []StatFilter {
	if mods == nil {
		return list
	}
	pattern, values := NormalizeMod(text)
	id, ok := mods.StatID(pattern, namespace)
	if !ok {
		return list
	}
	return append(list, StatFilter{
		ID:      id,
		Text:    text,
		Enabled: true,
		Value:   statValueFromValues(values),
	})
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
