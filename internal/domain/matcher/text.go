package matcher

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minFragmentLen is the shortest normalized name that may match as a substring.
const minFragmentLen = 3

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9 ]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
)

// foldText strips diacritics, lower-cases, and reduces punctuation to single spaces.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	result = strings.ToLower(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// nameTokens returns the significant tokens of a folded name.
// Tokens shorter than minFragmentLen (sa, de, y...) carry no identity.
func nameTokens(folded string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(folded) {
		if len(tok) >= minFragmentLen {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

// namesMatch reports a fuzzy counterparty match: substring containment, a majority
// token overlap, or an edit distance within maxDrift of the longer name.
func namesMatch(a, b string, maxDrift decimal.Decimal) bool {
	fa, fb := foldText(a), foldText(b)
	if fa == "" || fb == "" {
		return false
	}
	if fa == fb {
		return true
	}

	shorter, longer := fa, fb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= minFragmentLen && strings.Contains(longer, shorter) {
		return true
	}

	ta, tb := nameTokens(fa), nameTokens(fb)
	smallest := len(ta)
	if len(tb) < smallest {
		smallest = len(tb)
	}
	if smallest > 0 {
		shared := 0
		for tok := range ta {
			if _, ok := tb[tok]; ok {
				shared++
			}
		}
		if shared*2 > smallest {
			return true
		}
	}

	distance := levenshtein.DistanceForStrings([]rune(fa), []rune(fb), levenshtein.DefaultOptions)
	allowed := decimal.NewFromInt(int64(len([]rune(longer)))).Mul(maxDrift).IntPart()
	return allowed > 0 && int64(distance) <= allowed
}

// normalizeTaxID keeps only letters and digits, upper-cased, so "20-111-1" equals "201111".
func normalizeTaxID(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func taxIDsMatch(a, b string) bool {
	na, nb := normalizeTaxID(a), normalizeTaxID(b)
	return na != "" && na == nb
}

func categoriesMatch(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && b != "" && strings.EqualFold(a, b)
}
