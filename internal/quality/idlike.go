package quality

import (
	"strings"
	"unicode"

	"github.com/peekknuf/edaqa/internal/profiler"
)

// identifier tokens, including the usual abbreviations
var idTokens = map[string]struct{}{
	"id": {}, "uid": {}, "pid": {}, "uuid": {}, "guid": {},
}

// nameTokens splits a column name on non-alphanumerics and camelCase
// boundaries: "userId" and "user_id" both yield [user id].
func nameTokens(name string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return tokens
}

// hasIDName reports whether the column name marks an identifier.
func hasIDName(name string) bool {
	for _, tok := range nameTokens(name) {
		if _, ok := idTokens[tok]; ok {
			return true
		}
	}
	return false
}

// isNearUnique reports whether almost every present value is distinct.
// Only categorical and integral columns qualify.
func isNearUnique(c *profiler.ColumnProfile, p Policy) bool {
	if c.NonNull < p.NearUniqueMinRows || c.NonNull == 0 {
		return false
	}
	if !c.IsCategorical() && !(c.IsNumeric() && c.IsIntegral()) {
		return false
	}
	return float64(c.Unique)/float64(c.NonNull) >= p.NearUniqueRatio
}

// IsIDLike reports whether a column looks like a row identifier.
func IsIDLike(c *profiler.ColumnProfile, p Policy) bool {
	return hasIDName(c.Name) || isNearUnique(c, p)
}
