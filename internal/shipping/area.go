package shipping

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CatchAllRadiusKm covers rules whose area label is empty or unknown
const CatchAllRadiusKm = 20.0

// areaRadiusKm maps normalized area labels to the maximum distance they cover
var areaRadiusKm = map[string]float64{
	"centro":               5,
	"geral":                15,
	"regiao metropolitana": 30,
}

// AreaRadiusKm returns the coverage radius for an area label.
// Labels are matched case- and accent-insensitively.
func AreaRadiusKm(area string) float64 {
	if r, ok := areaRadiusKm[normalizeArea(area)]; ok {
		return r
	}
	return CatchAllRadiusKm
}

// KnownArea reports whether the label maps to an explicit table entry
func KnownArea(area string) bool {
	_, ok := areaRadiusKm[normalizeArea(area)]
	return ok
}

func normalizeArea(area string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, area)
	if err != nil {
		folded = area
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
