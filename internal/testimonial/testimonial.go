// Package testimonial holds the word-limit rule shared by the API and its clients.
package testimonial

import (
	"errors"
	"fmt"
	"strings"
)

// MaxWords is the longest testimonial accepted.
const MaxWords = 30

// ErrEmpty is returned for text without any words.
var ErrEmpty = errors.New("testimonial cannot be empty")

// LimitError reports how far a testimonial runs over MaxWords.
type LimitError struct {
	Words int
}

// Overage is the number of words above the limit.
func (e *LimitError) Overage() int {
	return e.Words - MaxWords
}

func (e *LimitError) Error() string {
	over := e.Overage()
	unit := "words"
	if over == 1 {
		unit = "word"
	}
	return fmt.Sprintf("testimonial exceeds %d words limit by %d %s", MaxWords, over, unit)
}

// CountWords counts whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Validate returns the word count of text, or ErrEmpty / *LimitError when it is out of range.
func Validate(text string) (int, error) {
	n := CountWords(text)
	if n == 0 {
		return 0, ErrEmpty
	}
	if n > MaxWords {
		return n, &LimitError{Words: n}
	}
	return n, nil
}
