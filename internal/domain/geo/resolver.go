// Package geo turns free-form country input into the country codes the
// job store and providers expect.
package geo

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCountry is used whenever no country can be determined
const DefaultCountry = "fr"

// Fallback resolves a country when the caller supplied none (typically geolocation)
type Fallback func(ctx context.Context) (string, error)

// Resolve returns the lower-cased raw country when present, otherwise the
// fallback's answer, otherwise DefaultCountry. It never fails.
func Resolve(ctx context.Context, raw string, fallback Fallback) string {
	if c := strings.ToLower(strings.TrimSpace(raw)); c != "" {
		return c
	}

	if fallback != nil {
		c, err := fallback(ctx)
		if err == nil {
			if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
				return c
			}
		}
	}

	return DefaultCountry
}

// Code maps a country name or code to its two-letter code.
// Anything outside the table degrades to DefaultCountry.
func Code(nameOrCode string) string {
	if code, ok := Lookup(nameOrCode); ok {
		return code
	}
	return DefaultCountry
}

// Lookup is Code without the fallback: ok is false when the input is not in the table.
func Lookup(nameOrCode string) (string, bool) {
	key := fold(nameOrCode)
	if key == "" {
		return "", false
	}
	if _, ok := codeNames[key]; ok {
		return key, true
	}
	code, ok := nameCodes[key]
	return code, ok
}

// Name returns the English country name for a code or name, or the input
// unchanged when it is not in the table.
func Name(nameOrCode string) string {
	key := fold(nameOrCode)
	if name, ok := codeNames[key]; ok {
		return name
	}
	if code, ok := nameCodes[key]; ok {
		return codeNames[code]
	}
	return strings.TrimSpace(nameOrCode)
}

// CodeIn resolves nameOrCode with Code and checks it against a provider's
// supported set, falling back to DefaultCountry.
func CodeIn(nameOrCode string, supported map[string]bool) string {
	code := Code(nameOrCode)
	if supported[code] {
		return code
	}
	return DefaultCountry
}

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	stripped, _, err := transform.String(folder, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}
