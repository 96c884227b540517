package nlp

import (
	"regexp"
	"strings"
)

var (
	// Arabic combining marks: honorifics, tashkeel and Quranic annotation ranges.
	diacriticsRe = regexp.MustCompile(`[\x{0610}-\x{061A}\x{064B}-\x{065F}\x{06D6}-\x{06ED}]`)
	// Everything outside Arabic letters, whitespace, ASCII and Arabic-Indic
	// digits and the decimal separators "." / "٫" becomes a space.
	disallowedRe = regexp.MustCompile(`[^\x{0600}-\x{06FF}\s0-9٠١٢٣٤٥٦٧٨٩.٫]`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// RemoveDiacritics strips Arabic combining diacritical marks.
func RemoveDiacritics(text string) string {
	return diacriticsRe.ReplaceAllString(text, "")
}

// Normalize lower-cases the text, removes diacritics, replaces characters
// outside the controlled alphabet with spaces and collapses whitespace runs.
// Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = RemoveDiacritics(t)
	t = disallowedRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(t, " "))
}

// FoldDigits maps Arabic-Indic (٠-٩) and Eastern Arabic-Indic (۰-۹) digits to
// ASCII so that "1", "١" and "۱" select the same menu entry.
func FoldDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 0x0660 && r <= 0x0669:
			b.WriteRune('0' + (r - 0x0660))
		case r >= 0x06F0 && r <= 0x06F9:
			b.WriteRune('0' + (r - 0x06F0))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeSelection prepares user input for menu-code matching: digits are
// folded to ASCII, the Arabic decimal separator "٫" and "," become "." and
// spaces are stripped.
func NormalizeSelection(s string) string {
	t := FoldDigits(Normalize(s))
	t = strings.ReplaceAll(t, "٫", ".")
	t = strings.ReplaceAll(t, ",", ".")
	return strings.ReplaceAll(t, " ", "")
}
