// Package skugen generates SKU codes for new stock rows in the form
// PREFIX-TTTT-RRRR: a latin prefix derived from the product name, the tail of
// the current timestamp in base 36, and a random base-36 suffix.
package skugen

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const fallbackPrefix = "SKU"

// Prefix derives an uppercase latin prefix from a product name: a single
// word keeps its first 8 characters, several words contribute their
// initials (up to 3). Names with no latin letters or digits fall back to
// "SKU".
func Prefix(name string) string {
	var b strings.Builder
	lastWasSpace := true
	for _, r := range name {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToUpper(r))
			lastWasSpace = false
		default:
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
		}
	}

	words := strings.Fields(b.String())
	if len(words) == 0 {
		return fallbackPrefix
	}
	if len(words) == 1 {
		w := words[0]
		if len(w) > 8 {
			w = w[:8]
		}
		return w
	}

	var p strings.Builder
	for i, w := range words {
		if i == 3 {
			break
		}
		p.WriteByte(w[0])
	}
	return p.String()
}

// Candidate builds one code candidate for the name.
func Candidate(name string) string {
	return Prefix(name) + "-" + shortTimestamp() + "-" + randomTail(4)
}

// Unique returns a candidate not present in taken, and records it there so a
// batch of rows never collides with itself.
func Unique(name string, taken map[string]struct{}) string {
	for {
		code := Candidate(name)
		if _, exists := taken[code]; !exists {
			taken[code] = struct{}{}
			return code
		}
	}
}

func shortTimestamp() string {
	s := strconv.FormatInt(time.Now().UnixMilli(), 36)
	if len(s) > 4 {
		s = s[len(s)-4:]
	}
	return strings.ToUpper(s)
}

const tailAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomTail(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tailAlphabet[rand.Intn(len(tailAlphabet))]
	}
	return string(b)
}
