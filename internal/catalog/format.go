package catalog

import "strconv"

// FormatViews renders a view count the way the cards show it: millions with
// an "M", thousands with a "K", one decimal place, anything smaller as is.
//
//	999     -> "999"
//	1500    -> "1.5K"
//	2500000 -> "2.5M"
func FormatViews(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}
