package format

import "fmt"

// FrameBudgetMillis is the CPU time available to one frame at 60 Hz.
const FrameBudgetMillis = 16.6

// FPS formats a frame rate, e.g. "59.94".
func FPS(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// CPU formats a frame CPU time together with its share of the 60 Hz
// frame budget, e.g. "8.30 (50.0%)".
func CPU(ms float64) string {
	return fmt.Sprintf("%.2f (%.1f%%)", ms, Percent(ms, FrameBudgetMillis))
}

// Memory formats heap usage against total memory, e.g.
// "512.00 / 16384.00 (3.1%)". An unknown total prints the usage only.
func Memory(usedMiB, totalMiB float64) string {
	if totalMiB <= 0 {
		return fmt.Sprintf("%.2f", usedMiB)
	}
	return fmt.Sprintf("%.2f / %.2f (%.1f%%)", usedMiB, totalMiB, Percent(usedMiB, totalMiB))
}

// Percent returns v as a percentage of total, or 0 when total is not
// positive.
func Percent(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return v / total * 100
}
