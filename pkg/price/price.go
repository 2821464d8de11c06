// Package price turns free-text price fragments into a classified type and
// numeric value. It is shared verbatim by the live scraping pipeline and the
// offline backfill command; both must produce identical results for the same
// input, so keep this package pure and dependency-free.
package price

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAPartirDe Type = "a_partir_de"
	TypeUnico     Type = "unico"
)

// Price is the outcome of parsing one fragment. Value is nil when no usable
// numeric token was found.
type Price struct {
	Type  Type
	Value *float64
}

// startingFromSignals mark a "starting from" price, Portuguese and English
// variants as seen in the wild.
var startingFromSignals = []string{
	"a partir",
	"apartir",
	"desde",
	"from",
	"starting",
	"starting at",
	"min.",
	"mínimo",
	"minimo",
	"início de",
	"inicio de",
}

// numberRe matches 1-3 leading digits, zero or more exact-3-digit groups
// separated by "." or ",", and an optional 1-2 digit fractional part.
var numberRe = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{1,2})?`)

// Parse classifies a fragment and extracts its numeric value.
//
// Decimal separator disambiguation: if the last comma comes after the last
// dot (or there is a comma and no dot), the comma is the decimal mark;
// otherwise the dot is. Note this intentionally reads "1.490" as 1.49: the
// stored history was produced with this rule and the backfill depends on
// matching it bit for bit.
func Parse(fragment string) Price {
	p := Price{Type: TypeUnico}

	lower := strings.ToLower(fragment)
	for _, signal := range startingFromSignals {
		if strings.Contains(lower, signal) {
			p.Type = TypeAPartirDe
			break
		}
	}

	token := numberRe.FindString(fragment)
	if token == "" {
		return p
	}

	if v, ok := parseAmount(token); ok {
		p.Value = &v
	}
	return p
}

func parseAmount(token string) (float64, bool) {
	lastComma := strings.LastIndex(token, ",")
	lastDot := strings.LastIndex(token, ".")

	var s string
	if lastComma > lastDot {
		// Comma is the decimal mark: dots are grouping, the final comma
		// becomes the decimal point, earlier commas are grouping too.
		s = strings.ReplaceAll(token, ".", "")
		i := strings.LastIndex(s, ",")
		s = strings.ReplaceAll(s[:i], ",", "") + "." + s[i+1:]
	} else {
		// Dot decimal, or no separators at all.
		s = strings.ReplaceAll(token, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// HasNumericToken reports whether any parseable numeric token exists in text.
// Callers use it to decide between a null price type and "nao_informado",
// which is reserved for pages that never mention a number at all.
func HasNumericToken(text string) bool {
	return numberRe.MatchString(text)
}
