package dialect

import (
	"strings"
)

// DefaultNormalizeType is a default implementation for type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(strings.TrimSpace(sqlType))
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// SplitQuotedList parses a comma-separated list of single-quoted SQL literals such as
// the body of enum('a','b'). Doubled quotes inside a literal are unescaped.
func SplitQuotedList(body string) []string {
	var (
		values  []string
		current strings.Builder
		inQuote bool
	)

	for i := 0; i < len(body); i++ {
		c := body[i]
		if !inQuote {
			if c == '\'' {
				inQuote = true
				current.Reset()
			}
			continue
		}
		if c == '\'' {
			if i+1 < len(body) && body[i+1] == '\'' {
				current.WriteByte('\'')
				i++
				continue
			}
			inQuote = false
			values = append(values, current.String())
			continue
		}
		current.WriteByte(c)
	}

	return values
}
