package extractor

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

var idnaProfile = idna.Lookup

// titleCase lower-cases the value and upper-cases the first letter of every
// whitespace separated word. Inner spacing is kept as is.
func titleCase(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))
	atWordStart := true
	for _, r := range value {
		if unicode.IsSpace(r) {
			atWordStart = true
			b.WriteRune(r)
			continue
		}
		if atWordStart {
			r = unicode.ToUpper(r)
			atWordStart = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// upperFirst trims the value and upper-cases its first rune only.
func upperFirst(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	r, size := utf8.DecodeRuneInString(value)
	return string(unicode.ToUpper(r)) + value[size:]
}

func mapText(value *string, fn func(string) string) *string {
	if value == nil {
		return nil
	}
	out := fn(*value)
	if out == "" {
		return nil
	}
	return &out
}

// ValidURL reports whether value is an absolute URL with a scheme and a host
// that survives IDNA lookup conversion.
func ValidURL(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " \t\r\n") {
		return false
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}
	host := parsed.Hostname()
	if host == "" {
		return false
	}
	if _, err := idnaProfile.ToASCII(host); err != nil {
		return false
	}
	return true
}
