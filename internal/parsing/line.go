package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

// noiseKeywords are receipt boilerplate fragments. A line containing any of
// them is discarded before item extraction, regardless of parser mode.
var noiseKeywords = []string{
	"subtotal",
	"shipping",
	"tax",
	"payment method",
	"order summary",
	"grand total",
	"sold by:",
	"order #",
	"view related transactions",
}

var (
	// priceOnlyPattern matches a line that is nothing but an amount,
	// e.g. "$1,299.99" or "14.99".
	priceOnlyPattern = regexp.MustCompile(`^\$?\d[\d,]*(?:\.\d+)?$`)

	// trailingPricePattern matches a description followed by an amount,
	// e.g. "Widget Pro 19.99".
	trailingPricePattern = regexp.MustCompile(`^(.*?)\s+\$?(\d[\d,]*(?:\.\d+)?)$`)
)

// isNoise reports whether a line is receipt boilerplate.
func isNoise(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range noiseKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// parseAmount parses a currency string, stripping a leading "$" and any
// thousands separators.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

// splitTrailingPrice splits a line into a name prefix and a trailing amount.
// ok is false when the line carries no trailing amount, the amount fails to
// parse, or the prefix is empty; callers then treat the whole line as
// descriptive text.
func splitTrailingPrice(line string) (name string, price float64, ok bool) {
	m := trailingPricePattern.FindStringSubmatch(line)
	if m == nil {
		return "", 0, false
	}
	price, err := parseAmount(m[2])
	if err != nil {
		return "", 0, false
	}
	name = strings.TrimSpace(m[1])
	if name == "" {
		return "", 0, false
	}
	return name, price, true
}
