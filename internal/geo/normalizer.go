package geo

import "strings"

// adminSuffixes are administrative markers stripped from place names to get a
// bare, queryable name. Longer composite suffixes come first so a short marker
// never cuts inside a longer one.
var adminSuffixes = []string{
	"维吾尔自治区", "特别行政区",
	"回族自治区", "壮族自治区", "蒙古自治区", "藏族自治区",
	"自治区",
	"地区",
	"市", "省", "区", "县", "州", "盟",
}

// terminalMarkers end a city-level administrative name in free-text locations.
var terminalMarkers = []string{"市", "自治州", "地区", "州", "盟"}

// adminBoundaries delimit higher-tier regions in free-text locations. Longer
// boundaries are tried first ("自治区" must not be cut at the embedded "区").
var adminBoundaries = []string{
	"特别行政区",
	"维吾尔自治区", "回族自治区", "壮族自治区", "蒙古自治区", "藏族自治区",
	"自治区",
	"省",
	"地区",
	"自治州",
	"州",
	"盟",
	"市",
}

// Normalizer extracts candidate administrative-region names from raw IP
// location data. It is a heuristic tuned for common three/four-tier CN
// administrative naming; formats outside that shape may yield empty or wrong
// candidates.
type Normalizer struct{}

// RawTextFromRecord builds a human-readable location string from a structured
// record: country, region, city.
func (Normalizer) RawTextFromRecord(loc IPLocation) string {
	var parts []string
	for _, s := range []string{loc.Country, loc.Region, loc.City} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// CityCandidatesFromRecord extracts ordered, deduplicated candidate place
// names from a structured record: city first, then region, suffix-stripped.
func (Normalizer) CityCandidatesFromRecord(loc IPLocation) []string {
	var out []string
	if loc.City != "" {
		out = append(out, StripAdminSuffix(loc.City))
	}
	if loc.Region != "" {
		out = append(out, StripAdminSuffix(loc.Region))
	}
	return dedupeNonEmpty(out)
}

// RawTextFromText normalizes a free-text location string.
func (Normalizer) RawTextFromText(text string) string {
	return strings.TrimSpace(text)
}

// CityCandidatesFromText extracts candidate place names from a free-text
// location string such as "新疆维吾尔自治区昌吉回族自治州昌吉市 电信".
//
// The string often contains only CJK characters, so taking the last run
// before a suffix would grab the whole prefix. Instead, for each terminal
// marker the token after the last administrative boundary before that marker
// is extracted, emitted both bare and with the marker re-appended.
func (Normalizer) CityCandidatesFromText(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	// Drop the ISP/carrier tail (usually after a space).
	core := trimmed
	if fields := strings.Fields(trimmed); len(fields) > 0 {
		core = fields[0]
	}

	var candidates []string
	for _, marker := range terminalMarkers {
		name := extractName(core, marker)
		if name == "" {
			continue
		}
		candidates = append(candidates, name, name+marker)
	}

	return dedupeNonEmpty(candidates)
}

// StripAdminSuffix removes the first matching administrative suffix from a
// place name: StripAdminSuffix("昌吉市") == "昌吉".
func StripAdminSuffix(name string) string {
	t := strings.TrimSpace(name)
	for _, s := range adminSuffixes {
		if strings.HasSuffix(t, s) {
			return strings.TrimSuffix(t, s)
		}
	}
	return t
}

// extractName returns the token between the last administrative boundary and
// the last occurrence of marker, or "" if marker is absent.
func extractName(text, marker string) string {
	idx := strings.LastIndex(text, marker)
	if idx < 0 {
		return ""
	}
	before := text[:idx]

	cut := 0
	for _, b := range adminBoundaries {
		if r := strings.LastIndex(before, b); r >= 0 {
			if end := r + len(b); end > cut {
				cut = end
			}
		}
	}

	return strings.TrimSpace(before[cut:])
}

func dedupeNonEmpty(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
