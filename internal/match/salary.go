package match

import (
	"strconv"
	"strings"
)

// ParseSalary converts a free-text salary expectation to a numeric annual
// figure. Supported shapes: plain numbers ("85000"), "k" notation ("85k"),
// ranges taken at the midpoint ("80k-100k", "$80,000 - $100,000"), and
// Indian lakhs-per-annum notation ("12 lpa", "12 lakhs"). Returns 0 when
// the string cannot be parsed; callers treat that as no contribution.
func ParseSalary(raw string) float64 {
	if raw == "" {
		return 0
	}
	cleaned := strings.ToLower(raw)
	for _, sym := range []string{"$", "£", "€", ","} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	if strings.Contains(cleaned, "-") {
		parts := strings.SplitN(cleaned, "-", 2)
		minVal := parseSingleSalary(strings.TrimSpace(parts[0]))
		maxVal := parseSingleSalary(strings.TrimSpace(parts[1]))
		if minVal > 0 && maxVal > 0 {
			return (minVal + maxVal) / 2
		}
	}
	return parseSingleSalary(cleaned)
}

func parseSingleSalary(s string) float64 {
	if s == "" {
		return 0
	}
	switch {
	case strings.Contains(s, "lpa") || strings.Contains(s, "lakh"):
		for _, suffix := range []string{"lpa", "lakhs", "lakh"} {
			s = strings.ReplaceAll(s, suffix, "")
		}
		if num, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return num * 100000
		}
	case strings.Contains(s, "k"):
		if num, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, "k", "")), 64); err == nil {
			return num * 1000
		}
	default:
		if num, err := strconv.ParseFloat(s, 64); err == nil {
			return num
		}
	}
	return 0
}
