package util

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// [1], [a], [note 3], [nb 2], [citation needed]
	reCitation    = regexp.MustCompile(`\[(?:[\p{L}\p{N}]+(?:[ _-]\p{N}+)?|citation needed|clarification needed)\]`)
	reParenSuffix = regexp.MustCompile(`\(\s*s\s*\)`)
	reHeaderJunk  = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

	invisible = strings.NewReplacer(
		"\u00ad", "", // soft hyphen
		"\u200b", "",
		"\u200c", "",
		"\u200d", "",
		"\u2060", "",
		"\ufeff", "",
	)
)

// NormalizeText cleans one piece of extracted cell text. The result is
// NFC-composed, free of citation markers, and has single ASCII spaces.
// An empty result means the cell carries no value.
func NormalizeText(raw string) string {
	s := raw
	for {
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeOnce(s string) string {
	s = unescapeEntities(s)
	s = norm.NFC.String(s)
	s = invisible.Replace(s)
	s = CollapseSpaces(s)
	for {
		next := reCitation.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}
	return CollapseSpaces(s)
}

func unescapeEntities(s string) string {
	for strings.Contains(s, "&") {
		next := html.UnescapeString(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func CollapseSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// NormalizeHeader produces the lookup key for a header cell:
// "Developer(s)[a]" -> "developer".
func NormalizeHeader(input string) string {
	s := strings.ToLower(NormalizeText(input))
	s = reParenSuffix.ReplaceAllString(s, "")
	s = reHeaderJunk.ReplaceAllString(s, " ")
	return CollapseSpaces(s)
}

// FoldKey lower-cases and strips accents.
func FoldKey(input string) string {
	// transform chains carry state; build one per call.
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripAccents, strings.ToLower(NormalizeText(input)))
	if err != nil {
		return strings.ToLower(NormalizeText(input))
	}
	return folded
}

func DiceCoefficient(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	pairs := func(s string) []string {
		r := []rune(s)
		if len(r) < 2 {
			return nil
		}
		out := make([]string, 0, len(r)-1)
		for i := 0; i < len(r)-1; i++ {
			out = append(out, string(r[i:i+2]))
		}
		return out
	}

	aPairs := pairs(a)
	bPairs := pairs(b)
	if len(aPairs) == 0 || len(bPairs) == 0 {
		return 0
	}

	bCount := map[string]int{}
	for _, p := range bPairs {
		bCount[p]++
	}
	inter := 0
	for _, p := range aPairs {
		if bCount[p] > 0 {
			inter++
			bCount[p]--
		}
	}

	return float64(2*inter) / float64(len(aPairs)+len(bPairs))
}
