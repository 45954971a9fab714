// Package readtime estimates how long a post takes to read.
package readtime

import (
	"fmt"
	"math"
	"unicode"
)

// DefaultWordsPerMinute is the reading speed used when none is configured.
const DefaultWordsPerMinute = 200

// Stats describes the estimate for one body of text.
type Stats struct {
	Words   int
	Minutes int
	Text    string
}

// Estimate counts the words in body and converts them to whole minutes at
// wpm words per minute (DefaultWordsPerMinute when wpm <= 0). The label has
// the form "3 min read".
func Estimate(body string, wpm int) Stats {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	words := CountWords(body)
	// Round to hundredths before the ceiling so float noise never adds a minute.
	exact := float64(words) / float64(wpm)
	minutes := int(math.Ceil(math.Round(exact*100) / 100))
	return Stats{
		Words:   words,
		Minutes: minutes,
		Text:    fmt.Sprintf("%d min read", minutes),
	}
}

// Label returns the reading-time label at the default speed.
func Label(body string) string {
	return Estimate(body, DefaultWordsPerMinute).Text
}

// CountWords counts CJK ideographs and syllables one per rune and every
// other run of letters, digits, apostrophes, and inner hyphens as one word.
func CountWords(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		switch {
		case isCJK(r):
			count++
			inWord = false
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			if !inWord {
				count++
				inWord = true
			}
		case inWord && (r == '\'' || r == '’' || r == '-'):
			// Joiners keep the current word open: don't, walk-in.
		default:
			inWord = false
		}
	}
	return count
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
