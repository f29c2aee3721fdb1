package ingest

import (
	"net/url"
	"strconv"
	"strings"
)

// NormalizeText trims the raw value and substitutes the placeholder when
// nothing remains. Total: every input maps to a non-empty string.
func NormalizeText(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Placeholder
	}
	return s
}

// NormalizeWon converts salary text such as "3,500만원" into an integer
// number of 만원. All characters other than digits and the decimal point are
// stripped before parsing; fractions truncate toward zero. Unparsable or
// negative input yields 0, so normalization can never abort a listing.
func NormalizeWon(raw string) int {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

// ResolveURL makes href absolute against base. Empty input yields fallback;
// input that does not parse is returned trimmed rather than dropped, since a
// broken link is still more useful than none.
func ResolveURL(href string, base *url.URL, fallback string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return fallback
	}
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
