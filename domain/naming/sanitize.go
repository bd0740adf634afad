package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength is the FATX filename limit, extension included
const DefaultMaxLength = 42

// Fallback is used when sanitizing leaves nothing of the original name
const Fallback = "ROM"

// characters trimmed from the edges of a sanitized base name
const trimSet = " .-_"

var (
	// any [ ... ] tag (GoodTools style)
	bracketRegex = regexp.MustCompile(`\s*\[[^\]]*\]`)

	// ( ... ) holding a region, language, revision or release token
	taggedParensRegex = regexp.MustCompile(`(?i)\s*\([^)]*\b(?:` +
		`USA|Japan|World|Europe|PAL|NTSC|JPN|U|E|` +
		`Eng(?:lish)?|En|Fr|De|Es|It|Nl|Pt|Sv|No|Ja|` +
		`Rev(?:\s*\d+|[A-Z])?|` +
		`Proto|Beta|Unl|Arcade|Demo|Sample|Alt\s*\d+|` +
		`v\d+(?:\.\d+)?|` +
		`[A-Z]{2}(?:,[A-Z]{2})+` +
		`)\b[^)]*\)`)

	emptyGroupRegex  = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
	unsafeCharsRegex = regexp.MustCompile(`[^A-Za-z0-9 ._-]+`)
	separatorRegex   = regexp.MustCompile(`[,/]+`)
	dashRunRegex     = regexp.MustCompile(`[-_]{2,}`)
	spaceRunRegex    = regexp.MustCompile(`\s{2,}`)
)

// toASCII decomposes accented letters and drops the combining marks, so
// "Pokémon" becomes "Pokemon" instead of losing the letter entirely
func toASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// TidyBase strips dump tags and unsafe characters from a base file name
func TidyBase(name string) string {
	name = bracketRegex.ReplaceAllString(name, "")
	name = taggedParensRegex.ReplaceAllString(name, "")
	name = emptyGroupRegex.ReplaceAllString(name, "")
	name = toASCII(name)
	name = unsafeCharsRegex.ReplaceAllString(name, " ")
	name = separatorRegex.ReplaceAllString(name, " ")
	name = dashRunRegex.ReplaceAllString(name, " ")
	name = spaceRunRegex.ReplaceAllString(name, " ")
	name = strings.Trim(name, trimSet)
	if name == "" {
		return Fallback
	}
	return name
}

// EnforceLength shortens base so that base+ext fits in maxLen, cutting at
// the last word boundary when there is one
func EnforceLength(base, ext string, maxLen int) string {
	allowed := maxLen - len(ext)
	if allowed < 1 {
		allowed = 1
	}
	if len(base) <= allowed {
		return base
	}

	trimmed := base[:allowed]
	if idx := strings.LastIndex(trimmed, " "); idx >= 0 {
		trimmed = strings.TrimRight(trimmed[:idx], trimSet)
		if trimmed == "" {
			trimmed = strings.TrimRight(base[:allowed], trimSet)
		}
	} else {
		trimmed = strings.TrimRight(trimmed, trimSet)
	}

	if trimmed == "" {
		return Fallback
	}
	return trimmed
}

// Sanitize returns the cleaned base name and the untouched extension of filename
func Sanitize(filename string, maxLen int) (string, string) {
	base, ext := SplitExt(filename)
	base = EnforceLength(TidyBase(base), ext, maxLen)
	base = strings.Trim(base, trimSet)
	if base == "" {
		base = Fallback
	}
	return base, ext
}
