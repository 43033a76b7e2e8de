package quantity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// numberWords covers the counts staff actually say out loud.
var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19, "twenty": 20,
}

var digitRun = regexp.MustCompile(`\b\d+\b`)

// Extract pulls a count out of a spoken-phrase transcript. Digits win
// over words anywhere in the phrase; number words match whole tokens
// only, so "nineteen" is nineteen rather than nine. Zero means no
// quantity was found.
func Extract(transcript string) int {
	lower := strings.ToLower(transcript)

	if m := digitRun.FindString(lower); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}

	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, token := range tokens {
		if n, ok := numberWords[token]; ok {
			return n
		}
	}

	return 0
}
