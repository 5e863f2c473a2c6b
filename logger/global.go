package logger

import (
	"strings"
	"unicode"

	"github.com/rainycape/unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var subRune = map[rune]string{
	'&':  "and",
	'@':  "at",
	'+':  "plus",
	'"':  "",
	'\'': "",
	'’':  "",
	'‒':  "-", // figure dash
	'–':  "-", // en dash
	'—':  "-", // em dash
	'―':  "-", // horizontal bar
	'ä':  "ae",
	'Ä':  "Ae",
	'ö':  "oe",
	'Ö':  "Oe",
	'ü':  "ue",
	'Ü':  "Ue",
	'ß':  "ss",
}

func newDiacriticsTransformer() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// StringReplaceDiacritics strips combining marks ("Amélie" -> "Amelie").
func StringReplaceDiacritics(instr string) string {
	out, _, err := transform.String(newDiacriticsTransformer(), instr)
	if err != nil {
		return instr
	}
	return out
}

// StringToSlug converts a label into a lowercase ascii slug usable in URLs,
// element ids and file names ("Science Fiction & Fantasy" -> "science-fiction-and-fantasy").
func StringToSlug(instr string) string {
	var bld strings.Builder
	for _, c := range strings.TrimSpace(instr) {
		if d, ok := subRune[c]; ok {
			bld.WriteString(d)
		} else {
			bld.WriteRune(c)
		}
	}
	slug := strings.ToLower(unidecode.Unidecode(StringReplaceDiacritics(bld.String())))

	bld.Reset()
	dash := false
	for _, c := range slug {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			bld.WriteRune(c)
			dash = false
			continue
		}
		if !dash && bld.Len() > 0 {
			bld.WriteRune('-')
			dash = true
		}
	}
	return strings.TrimSuffix(bld.String(), "-")
}
