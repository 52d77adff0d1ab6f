package geocoder

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery composes the query to NFC and collapses runs of whitespace so
// visually identical inputs reach the provider as the same string.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(norm.NFC.String(query)), " ")
}

// FoldASCII lowercases s and transliterates it to ASCII for similarity scoring.
func FoldASCII(s string) string {
	return strings.ToLower(unidecode.Unidecode(NormalizeQuery(s)))
}
