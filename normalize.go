package main

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// numbers such as 2, +105, 12 (from 12%), 5.85, -3
	numberPattern = regexp.MustCompile(`\+?-?\d+\.?\d*`)

	additionalPattern = regexp.MustCompile(` an additional (Projectile|Arrow|Curse)`)
	ailmentPattern    = regexp.MustCompile(`You cannot be (Chilled|Frozen|Shocked|Ignited) for # seconds`)
)

// NormalizeMod turns an affix line into its stat catalog pattern and the
// numbers it carried, in left-to-right order.
//
//	"Adds 6 to 11 Physical Damage" -> "Adds # to # Physical Damage", [6 11]
func NormalizeMod(text string) (string, []float64) {
	var values []float64
	normalized := numberPattern.ReplaceAllStringFunc(text, func(tok string) string {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			v = 0
		}
		values = append(values, v)
		return "#"
	})

	// "an additional Arrow" is catalogued as "# additional Arrows".
	if m := additionalPattern.FindString(normalized); m != "" {
		values = append(values, 1)
		// The grenade variant is catalogued with the singular wording.
		if !strings.HasPrefix(normalized, "Grenade") {
			normalized = strings.ReplaceAll(normalized, m, m+"s")
			normalized = strings.ReplaceAll(normalized, " an additional ", " # additional ")
		}
	}

	if ailmentPattern.MatchString(normalized) {
		normalized = strings.ReplaceAll(normalized, "for # seconds", "for # second")
	}

	return normalized, values
}
