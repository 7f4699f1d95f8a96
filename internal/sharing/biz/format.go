package biz

import (
	"math"
	"strconv"
	"strings"
)

// compactUnits from largest to smallest
var compactUnits = []struct {
	value  float64
	suffix string
}{
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatCompact renders a share count the way the widgets display it:
// counts below one thousand verbatim, larger counts with one decimal and a
// K/M/B suffix ("1.2K", "3.4M"). The decimal is truncated, not rounded, so
// a count never displays higher than it is.
func FormatCompact(n int) string {
	if n < 0 {
		n = 0
	}
	if n < 1000 {
		return strconv.Itoa(n)
	}

	for _, unit := range compactUnits {
		if float64(n) < unit.value {
			continue
		}
		v := math.Floor(float64(n)/unit.value*10) / 10
		s := strconv.FormatFloat(v, 'f', 1, 64)
		s = strings.TrimSuffix(s, ".0")
		return s + unit.suffix
	}

	return strconv.Itoa(n)
}
