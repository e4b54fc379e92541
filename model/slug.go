package model

import (
	"strings"
	"unicode"
)

// Slugify derives a URL token from a title: lowercase, ascii letters and
// digits kept, everything else collapsed into single hyphens. Post and
// Category slugs are always produced here at write time so a slug can never
// drift from its title.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
