package cleanup

import (
	"strconv"
	"strings"

	"epc/config"
)

var (
	onesWords = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teenWords = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
		"Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tensWords = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}

	romanValues = []struct {
		value   int
		numeral string
	}{
		{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
		{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
		{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
	}
)

// numberToWords renders 1-99 as capitalized cardinal words, everything else
// falls back to the decimal form.
func numberToWords(n int) string {
	switch {
	case n < 1 || n >= 100:
		return strconv.Itoa(n)
	case n < 10:
		return onesWords[n]
	case n < 20:
		return teenWords[n-10]
	default:
		if n%10 == 0 {
			return tensWords[n/10]
		}
		return tensWords[n/10] + " " + onesWords[n%10]
	}
}

// numberToRoman renders a number as Roman numerals. Well defined for 1-3999,
// not guarded outside of that range.
func numberToRoman(n int) string {
	var sb strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			sb.WriteString(rv.numeral)
			n -= rv.value
		}
	}
	return sb.String()
}

// FormatChapterNumber renders a chapter number according to the requested style.
func FormatChapterNumber(n int, style config.NumberingStyle) string {
	switch style {
	case config.NumberingStyleWords:
		return numberToWords(n)
	case config.NumberingStyleRoman:
		return numberToRoman(n)
	default:
		return strconv.Itoa(n)
	}
}

// HeadingText joins prefix, formatted number and optional trailing text with
// single spaces, skipping empty parts.
func HeadingText(prefix, number, after string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{prefix, number, after} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
