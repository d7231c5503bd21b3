// Package colors parses and normalizes CSS-style color values.
//
// A color value is accepted in one of five textual grammars (HEX, RGB,
// RGBA, HSL, HSLA) or as a CSS named color. The same Parse function is
// called at the storage layer before a value is written and at the API
// boundary before a value is accepted, so both paths agree exactly on
// which strings are valid and how they normalize.
package colors

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxLength bounds stored color values. 50 characters fits the most
// verbose accepted form, e.g. "hsla(360, 100%, 100%, 1.0)".
const MaxLength = 50

// Numeric bounds per grammar.
const (
	rgbMax        = 255
	hueMax        = 360
	saturationMax = 100
	lightnessMax  = 100
	alphaMax      = 1
)

var (
	hexPattern  = regexp.MustCompile(`^#([0-9a-f]{3}|[0-9a-f]{6}|[0-9a-f]{8})$`)
	rgbPattern  = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
	rgbaPattern = regexp.MustCompile(`^rgba\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*([0-9]*\.?[0-9]+)\s*\)$`)
	hslPattern  = regexp.MustCompile(`^hsl\(\s*(\d{1,3})\s*,\s*(\d{1,3})%\s*,\s*(\d{1,3})%\s*\)$`)
	hslaPattern = regexp.MustCompile(`^hsla\(\s*(\d{1,3})\s*,\s*(\d{1,3})%\s*,\s*(\d{1,3})%\s*,\s*([0-9]*\.?[0-9]+)\s*\)$`)
)

// InvalidColorError is the only failure kind Parse produces. The
// message names the grammar and its valid range when the input matched
// a grammar structurally but failed a range check, and falls back to a
// generic listing of supported formats otherwise.
type InvalidColorError struct {
	Message string
}

func (e *InvalidColorError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) error {
	return &InvalidColorError{Message: fmt.Sprintf(format, args...)}
}

// Parse validates raw and returns its normalized form: trimmed and
// lower-cased, with the internal formatting of valid input preserved
// ("#FFF" becomes "#fff", never "#ffffff"). The empty string, or a
// string that is all whitespace, is valid and normalizes to "" meaning
// no color is set.
func Parse(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", nil
	}
	if len(value) > MaxLength {
		return "", invalidf("color value must be at most %d characters", MaxLength)
	}

	if hexPattern.MatchString(value) {
		return value, nil
	}
	if _, ok := namedColors[value]; ok {
		return value, nil
	}

	if m := rgbPattern.FindStringSubmatch(value); m != nil {
		for _, part := range m[1:] {
			if n, _ := strconv.Atoi(part); n > rgbMax {
				return "", invalidf("RGB values must be between 0 and %d", rgbMax)
			}
		}
		return value, nil
	}

	if m := rgbaPattern.FindStringSubmatch(value); m != nil {
		ok := true
		for _, part := range m[1:4] {
			if n, _ := strconv.Atoi(part); n > rgbMax {
				ok = false
			}
		}
		if a, _ := strconv.ParseFloat(m[4], 64); a > alphaMax {
			ok = false
		}
		if !ok {
			return "", invalidf("RGBA values must be: RGB 0-%d, Alpha 0-%d", rgbMax, alphaMax)
		}
		return value, nil
	}

	if m := hslPattern.FindStringSubmatch(value); m != nil {
		h, _ := strconv.Atoi(m[1])
		s, _ := strconv.Atoi(m[2])
		l, _ := strconv.Atoi(m[3])
		if h > hueMax || s > saturationMax || l > lightnessMax {
			return "", invalidf("HSL values must be: H 0-%d, S/L 0-%d%%", hueMax, saturationMax)
		}
		return value, nil
	}

	if m := hslaPattern.FindStringSubmatch(value); m != nil {
		h, _ := strconv.Atoi(m[1])
		s, _ := strconv.Atoi(m[2])
		l, _ := strconv.Atoi(m[3])
		a, _ := strconv.ParseFloat(m[4], 64)
		if h > hueMax || s > saturationMax || l > lightnessMax || a > alphaMax {
			return "", invalidf("HSLA values must be: H 0-%d, S/L 0-%d%%, Alpha 0-%d",
				hueMax, saturationMax, alphaMax)
		}
		return value, nil
	}

	return "", invalidf(
		"Invalid color format. Supported formats: " +
			"#RRGGBB, #RRGGBBAA, rgb(r,g,b), rgba(r,g,b,a), " +
			"hsl(h,s%%,l%%), hsla(h,s%%,l%%,a), or CSS named colors")
}
