// Package normalize turns free-text monetary fields from extracted policy
// sheets into integers. Sheets carry premiums as display strings like
// "$10,129 元" or "１0,129"; downstream reporting sums plain integers.
package normalize

import (
	"strconv"
	"strings"
)

var premiumReplacer = strings.NewReplacer(
	",", "",
	"，", "",
	"$", "",
	"元", "",
	" ", "",
	" ", "",
)

// Premium converts premium display text to a non-negative integer.
// Thousands separators (half- and full-width), currency markers, and
// whitespace are stripped; decimal text is truncated toward zero.
// Empty, "nan", or unparseable input yields 0, as does any negative value —
// stored premiums are invariantly non-negative.
func Premium(s string) int {
	x := premiumReplacer.Replace(strings.TrimSpace(s))
	if x == "" || strings.EqualFold(x, "nan") {
		return 0
	}
	f, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return 0
	}
	n := int(f)
	if n < 0 {
		return 0
	}
	return n
}
