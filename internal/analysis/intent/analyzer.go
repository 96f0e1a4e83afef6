package intent

import (
	"strings"
	"unicode"
)

// Label is the shopping intent detected in user text.
type Label string

const (
	None    Label = "none"
	Summer  Label = "summer"
	Wedding Label = "wedding"
	Festive Label = "festive"
	Office  Label = "office"
)

// maxAmountDigits caps budget parsing so oversized numbers are ignored
// instead of overflowing.
const maxAmountDigits = 9

// Decision is the strongest intent found and its score.
type Decision struct {
	Intent Label
	Score  int
}

type bucket struct {
	label    Label
	keywords []string
}

// Buckets are checked in order; on equal scores the earlier bucket wins.
// Keywords match whole words; a trailing "s" on the text word is tolerated.
var buckets = []bucket{
	{Summer, []string{"lawn", "suit", "summer", "cotton", "garmi", "unstitched", "3-piece"}},
	{Wedding, []string{"wedding", "mehndi", "barat", "walima", "shaadi", "shadi", "bridal", "nikkah"}},
	{Festive, []string{"eid", "festive", "chaand raat", "chand raat", "celebration"}},
	{Office, []string{"office", "work", "formal", "meeting", "chinos", "interview"}},
}

// Analyze scores text against the keyword buckets.
func Analyze(text string) Decision {
	words := tokenize(text)
	if len(words) == 0 {
		return Decision{Intent: None}
	}

	best := Decision{Intent: None}
	for _, b := range buckets {
		score := 0
		for _, keyword := range b.keywords {
			if containsPhrase(words, strings.Fields(keyword)) {
				score += 3
			}
		}
		if score > best.Score {
			best = Decision{Intent: b.label, Score: score}
		}
	}
	return best
}

// tokenize lowercases text and splits it into words. Hyphens stay inside
// words so "3-piece" survives as one token.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		matched := true
		for j, want := range phrase {
			if !wordMatches(words[i+j], want) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func wordMatches(word, keyword string) bool {
	return word == keyword || word == keyword+"s"
}

// Budget extracts a spending ceiling such as "under 5000" or "below Rs. 3,000".
// It returns 0 when no ceiling is mentioned.
func Budget(text string) int {
	normalized := strings.ToLower(text)
	for _, marker := range []string{"under", "below", "less than", "within", "max"} {
		idx := strings.Index(normalized, marker)
		if idx < 0 {
			continue
		}
		if amount := leadingAmount(normalized[idx+len(marker):]); amount > 0 {
			return amount
		}
	}
	return 0
}

func leadingAmount(s string) int {
	s = strings.TrimLeft(s, " ")
	s = strings.TrimPrefix(s, "rs.")
	s = strings.TrimPrefix(s, "rs")
	s = strings.TrimPrefix(s, "pkr")
	s = strings.TrimLeft(s, " ")

	amount, digits := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
			if digits > maxAmountDigits {
				return 0
			}
			amount = amount*10 + int(r-'0')
		case r == ',' && digits > 0:
		default:
			if digits > 0 {
				return scaleSuffix(amount, r)
			}
			return 0
		}
	}
	return amount
}

func scaleSuffix(amount int, r rune) int {
	if r == 'k' {
		return amount * 1000
	}
	return amount
}
