package parser

// candidateDelimiters are tried in this order; earlier wins ties.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// IsValidDelimiter checks if a rune is a supported CSV delimiter
func IsValidDelimiter(delim rune) bool {
	for _, d := range candidateDelimiters {
		if d == delim {
			return true
		}
	}
	return false
}

// DetectDelimiter picks the most frequent candidate delimiter in the first
// few lines of data, outside quoted fields. Comma is the fallback.
func DetectDelimiter(data []byte) rune {
	counts := make(map[rune]int, len(candidateDelimiters))

	lines := 0
	inQuotes := false
	for i := 0; i < len(data) && lines < 5; i++ {
		c := data[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case c == '\n':
			lines++
		default:
			for _, d := range candidateDelimiters {
				if rune(c) == d {
					counts[d]++
				}
			}
		}
	}

	best := ','
	maxCount := 0
	for _, d := range candidateDelimiters {
		if counts[d] > maxCount {
			maxCount = counts[d]
			best = d
		}
	}
	return best
}
