// ABOUTME: Timecode formatting for CLI output
// ABOUTME: Renders element times in seconds as m:ss.cc or h:mm:ss.cc

package main

import (
	"fmt"
	"math"
)

// FormatTimecode renders seconds as m:ss.cc, growing an hour field past 60 minutes.
// Values are rounded to the nearest centisecond.
func FormatTimecode(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "--:--.--"
	}

	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}

	cs := int64(math.Round(seconds * 100))

	h := cs / 360000
	m := cs / 6000 % 60
	s := cs / 100 % 60
	frac := cs % 100

	if h > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d.%02d", sign, h, m, s, frac)
	}

	return fmt.Sprintf("%s%d:%02d.%02d", sign, m, s, frac)
}
