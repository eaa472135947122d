package tool

import (
	"fmt"
	"strings"
	"time"
)

const progressBarSegments = 10

// HumanBytes renders a byte count in binary units, e.g. "48.83 MB".
func HumanBytes(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	const unit = 1024
	units := []string{"B", "KB", "MB", "GB", "TB"}
	f := float64(size)
	n := 0
	for f >= unit && n < len(units)-1 {
		f /= unit
		n++
	}
	if n == 0 {
		return fmt.Sprintf("%d B", size)
	}
	return fmt.Sprintf("%.2f %s", f, units[n])
}

// ProgressBar renders a fixed-width block bar for percent in [0,100].
func ProgressBar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / (100 / progressBarSegments))
	if filled > progressBarSegments {
		filled = progressBarSegments
	}
	return strings.Repeat("■", filled) + strings.Repeat("□", progressBarSegments-filled)
}

// FormatETA renders a duration as a compact "1h 2m 3s" style string.
// Sub-second remainders round up so an in-flight transfer never shows "0s".
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return "1s"
	}
	d = d.Round(time.Second)
	parts := make([]string, 0, 4)
	if h := d / time.Hour; h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
		d -= h * time.Hour
	}
	if m := d / time.Minute; m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
		d -= m * time.Minute
	}
	if s := d / time.Second; s > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// RenderProgress builds the body of a progress status message.
func RenderProgress(title string, current, total int64, elapsed time.Duration) string {
	if total <= 0 {
		return fmt.Sprintf("**%s**\n\n%s", title, HumanBytes(current))
	}
	percent := float64(current) * 100 / float64(total)
	var speed float64
	if elapsed > 0 {
		speed = float64(current) / elapsed.Seconds()
	}
	eta := "-"
	if speed > 0 && current < total {
		eta = FormatETA(time.Duration(float64(total-current) / speed * float64(time.Second)))
	}
	if current >= total {
		eta = "0s"
	}
	return fmt.Sprintf(
		"**%s**\n\n%s %.2f%%\n├ 🗂️ %s / %s\n├ 🚀 %s/s\n└ ⏰ %s",
		title,
		ProgressBar(percent),
		percent,
		HumanBytes(current),
		HumanBytes(total),
		HumanBytes(int64(speed)),
		eta,
	)
}
