package idgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/vjeantet/jodaTime"
)

// jodaLetters are the pattern letters jodaTime understands. Any other
// unquoted letter would be printed verbatim, so it is rejected instead.
const jodaLetters = "GCYxweEyDMdaKhHkmsSzZ"

// formatDate renders t with a Joda/SimpleDateFormat pattern, the syntax id
// formats are written in ("yyyy", "dd-MM-yy", "yyyyMMdd'T'HH").
func formatDate(pattern string, t time.Time) (string, error) {
	if err := checkPattern(pattern); err != nil {
		return "", err
	}
	return jodaTime.Format(pattern, t), nil
}

func checkPattern(pattern string) error {
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\'' {
			if i+1 < len(runes) && runes[i+1] == '\'' {
				i++
				continue
			}
			end := i + 1
			for end < len(runes) && runes[end] != '\'' {
				end++
			}
			if end == len(runes) {
				return fmt.Errorf("unterminated quote in %q", pattern)
			}
			i = end
			continue
		}
		if isLetter(c) && !strings.ContainsRune(jodaLetters, c) {
			return fmt.Errorf("unsupported pattern letter %q in %q", c, pattern)
		}
	}
	return nil
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
