package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ligatures are letters that do not decompose into a base letter plus marks.
var ligatures = strings.NewReplacer(
	"æ", "ae", "œ", "oe", "ß", "ss", "ø", "o", "đ", "d", "ł", "l", "þ", "th",
	"&", " and ",
)

// Slug derives the URL identifier of a project from its display name.
// Periods, apostrophes and slashes are removed, accents are stripped, "&"
// becomes "and", and every other run of characters outside [a-z0-9]
// becomes a single hyphen:
//
//	Slug("React.js")        // "reactjs"
//	Slug("Vue Router")      // "vue-router"
//	Slug("Ember & Glimmer") // "ember-and-glimmer"
func Slug(name string) string {
	s := strings.ToLower(name)
	s = strings.NewReplacer(".", "", "'", "", "/", "").Replace(s)
	s = ligatures.Replace(s)
	s = stripMarks(s)

	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
