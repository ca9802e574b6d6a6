package game

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Word is one interned vocabulary entry. Words are created once while
// the game is built and compared by pointer identity everywhere, so
// two spellings of the same word always resolve to the same *Word.
type Word struct {
	// Text is the canonical spelling, uppercased and truncated to the
	// game's word length.
	Text string

	// Aliases holds every normalized spelling of this word, the
	// canonical one included.
	Aliases []string
}

func (w *Word) String() string {
	if w == nil {
		return ""
	}
	return w.Text
}

var upper = cases.Upper(language.English)

// normalize reduces a raw spelling to lookup form: uppercased and
// truncated to the configured vocabulary word length.
func normalize(text string, wordLength int) string {
	text = upper.String(text)
	runes := []rune(text)
	if wordLength > 0 && len(runes) > wordLength {
		return string(runes[:wordLength])
	}
	return text
}

// internWords builds Words from grouped synonym spellings and indexes
// every alias in lookup. Later groups do not displace earlier aliases
// with the same spelling, preserving declaration-order resolution.
func internWords(groups [][]string, wordLength int, lookup map[string]*Word) []*Word {
	words := make([]*Word, 0, len(groups))
	for _, group := range groups {
		w := &Word{Text: normalize(group[0], wordLength)}
		for _, spelling := range group {
			alias := normalize(spelling, wordLength)
			w.Aliases = append(w.Aliases, alias)
			if _, taken := lookup[alias]; !taken {
				lookup[alias] = w
			}
		}
		words = append(words, w)
	}
	return words
}
