package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for member display names, product names and reward names.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeSKU trims and upper-cases a product SKU.
func NormalizeSKU(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
