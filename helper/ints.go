package helper

import (
	"fmt"
	"strconv"
	"strings"
)

func StringsToInts(ss ...string) ([]int, error) {
	out := make([]int, len(ss))
	for i, s := range ss {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid int at index %d (%q): %w", i, s, err)
		}
		out[i] = n
	}
	return out, nil
}

// ParseInts is the lenient form of StringsToInts: tokens that are not
// integers are skipped instead of failing the whole list.
func ParseInts(ss ...string) []int {
	out := make([]int, 0, len(ss))
	for _, s := range ss {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ParseDecimal accepts both "7.5" and "7,5".
func ParseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return strconv.ParseFloat(s, 64)
}

// FormatDecimal renders f with the given precision and a comma as decimal separator.
func FormatDecimal(f float64, prec int) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', prec, 64), ".", ",", 1)
}
