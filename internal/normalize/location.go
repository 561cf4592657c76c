package normalize

import "strings"

// cityAbbrevs maps common city shorthand to the full city name. Lookup is
// exact-match on the trimmed, lowercased comma part.
var cityAbbrevs = map[string]string{
	"sf":     "san francisco",
	"sfo":    "san francisco",
	"nyc":    "new york",
	"la":     "los angeles",
	"dc":     "washington",
	"atl":    "atlanta",
	"chi":    "chicago",
	"philly": "philadelphia",
	"sea":    "seattle",
	"pdx":    "portland",
	"atx":    "austin",
	"bos":    "boston",
	"den":    "denver",
	"slc":    "salt lake city",
	"sd":     "san diego",
	"sj":     "san jose",
}

// stateAbbrevs maps USPS state codes to full state names. "la" and "sd" are
// absent: the city table is consulted first, so those resolve to Los Angeles
// and San Diego rather than Louisiana and South Dakota.
var stateAbbrevs = map[string]string{
	"al": "alabama", "ak": "alaska", "az": "arizona", "ar": "arkansas",
	"ca": "california", "co": "colorado", "ct": "connecticut", "de": "delaware",
	"fl": "florida", "ga": "georgia", "hi": "hawaii", "id": "idaho",
	"il": "illinois", "in": "indiana", "ia": "iowa", "ks": "kansas",
	"ky": "kentucky", "me": "maine", "md": "maryland",
	"ma": "massachusetts", "mi": "michigan", "mn": "minnesota", "ms": "mississippi",
	"mo": "missouri", "mt": "montana", "ne": "nebraska", "nv": "nevada",
	"nh": "new hampshire", "nj": "new jersey", "nm": "new mexico", "ny": "new york",
	"nc": "north carolina", "nd": "north dakota", "oh": "ohio", "ok": "oklahoma",
	"or": "oregon", "pa": "pennsylvania", "ri": "rhode island", "sc": "south carolina",
	"tn": "tennessee", "tx": "texas", "ut": "utah",
	"vt": "vermont", "va": "virginia", "wa": "washington", "wv": "west virginia",
	"wi": "wisconsin", "wy": "wyoming",
}

// countrySuffixes are stripped from the end of the string before splitting.
var countrySuffixes = []string{", usa", ", united states", ", us"}

// Location canonicalizes a location string. Any string that mentions
// "remote" collapses to the literal "remote" — that check dominates
// everything else ("Remote - USA, Hybrid" is just "remote"). Otherwise the
// string is split on commas and each part is mapped through the city and
// state abbreviation tables; unknown parts pass through lowercased.
func Location(s string) string {
	if strings.Contains(strings.ToLower(s), "remote") {
		return "remote"
	}

	s = strings.ToLower(strings.TrimSpace(s))
	for _, suffix := range countrySuffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if city, ok := cityAbbrevs[part]; ok {
			part = city
		} else if state, ok := stateAbbrevs[part]; ok {
			part = state
		}
		out = append(out, part)
	}
	return strings.Join(out, ", ")
}
