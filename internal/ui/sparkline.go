package ui

import "strings"

// SparklineChars are the eight bar heights, lowest first.
var SparklineChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a row of bars scaled to the largest value.
// Negative values render as the lowest bar.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}

	var sb strings.Builder
	sb.Grow(len(values) * 3)
	top := len(SparklineChars) - 1
	for _, v := range values {
		idx := 0
		if maxVal > 0 && v > 0 {
			idx = min(int(v/maxVal*float64(top)), top)
		}
		sb.WriteRune(SparklineChars[idx])
	}
	return sb.String()
}
