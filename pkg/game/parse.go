package game

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a misspelling can be from a known
// word before we stop offering it back.
const maxSuggestDistance = 2

// ParseCommand resolves a raw input line to at most a verb and a noun.
// The first token is tried as a verb; if that fails it is retried as a
// bare noun and any second token is ignored. All failures here are
// recoverable player errors.
func (g *Game) ParseCommand(input string) (verb, noun *Word, err error) {
	tokens := strings.Fields(input)
	switch {
	case len(tokens) == 0:
		return nil, nil, playerErrorf("Tell me what to do.")
	case len(tokens) > 2:
		return nil, nil, playerErrorf("I only understand two word commands.")
	}

	first := normalize(tokens[0], g.WordLength)
	verb = g.verbs[first]
	if verb == nil {
		// Bare noun commands like "NORTH" have no verb at all.
		if noun = g.nouns[first]; noun != nil {
			g.parsedNoun = tokens[0]
			return nil, noun, nil
		}
		return nil, nil, g.unknownWord(tokens[0], first, g.verbs, "verb")
	}

	if len(tokens) > 1 {
		second := normalize(tokens[1], g.WordLength)
		if noun = g.nouns[second]; noun == nil {
			return nil, nil, g.unknownWord(tokens[1], second, g.nouns, "noun")
		}
		g.parsedNoun = tokens[1]
	} else {
		g.parsedNoun = ""
	}
	return verb, noun, nil
}

// unknownWord builds the "don't know that word" error, suggesting the
// closest vocabulary spelling when one is near enough.
func (g *Game) unknownWord(raw, normalized string, vocab map[string]*Word, context string) error {
	if best := nearestSpelling(normalized, vocab); best != "" {
		return playerErrorf("I don't know the %s %q. Did you mean %q?", context, raw, best)
	}
	return playerErrorf("I don't know the %s %q.", context, raw)
}

func nearestSpelling(normalized string, vocab map[string]*Word) string {
	best := ""
	bestDistance := maxSuggestDistance + 1
	for spelling := range vocab {
		d := levenshtein.ComputeDistance(normalized, spelling)
		if d < bestDistance || (d == bestDistance && spelling < best) {
			best = spelling
			bestDistance = d
		}
	}
	if bestDistance > maxSuggestDistance {
		return ""
	}
	return best
}
