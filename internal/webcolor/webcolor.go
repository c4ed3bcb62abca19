// Package webcolor normalizes CSS color values into compact uppercase hex.
// It accepts exactly the forms the scoreboard markup can carry: rgb()/rgba()
// and the hex shorthands.
package webcolor

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	cssColorRe = regexp.MustCompile(`(?i)^\s*rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*([0-9]*\.?[0-9]+)\s*)?\)\s*$`)
	hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
)

// Hex converts a color value (rgb()/rgba() or any hex form) into compact
// uppercase hex. A 3-channel source yields exactly #RRGGBB; only sources
// that carry an alpha channel yield #RRGGBBAA.
func Hex(s string) (string, error) {
	s = strings.TrimSpace(s)
	if m := cssColorRe.FindStringSubmatch(s); m != nil {
		r, g, b := atoiChan(m[1]), atoiChan(m[2]), atoiChan(m[3])
		if r < 0 || g < 0 || b < 0 {
			return "", fmt.Errorf("color channel out of range in %q", s)
		}
		if m[4] == "" {
			return fmt.Sprintf("#%02X%02X%02X", r, g, b), nil
		}
		a, err := strconv.ParseFloat(m[4], 64)
		if err != nil || a < 0 || a > 1 {
			return "", fmt.Errorf("bad alpha in %q", s)
		}
		return fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, int(math.Round(a*255))), nil
	}
	if m := hexColorRe.FindStringSubmatch(s); m != nil {
		h := strings.ToUpper(m[1])
		switch len(h) {
		case 3, 4:
			// #RGB / #RGBA shorthand: double each digit
			var b strings.Builder
			b.WriteByte('#')
			for i := 0; i < len(h); i++ {
				b.WriteByte(h[i])
				b.WriteByte(h[i])
			}
			return b.String(), nil
		default:
			return "#" + h, nil
		}
	}
	return "", fmt.Errorf("unrecognized color %q", s)
}

// atoiChan parses a 0-255 channel; -1 flags out of range.
func atoiChan(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n > 255 {
		return -1
	}
	return n
}
