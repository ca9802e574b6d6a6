package game

import "strings"

// Token is one unit of the game's output stream: a word or a line
// break, optionally tagged with the vocabulary Word it refers to so a
// presentation layer can offer affordances on it.
type Token struct {
	Text string

	// Word is the interactive entity behind this token, or nil for
	// plain text.
	Word *Word
}

// IsNewline reports whether the token is a line break.
func (t Token) IsNewline() bool { return t.Text == "\n" }

func (t Token) String() string { return t.Text }

var newlineToken = Token{Text: "\n"}

// Output appends text to the pending output stream, split into one
// token per word.
func (g *Game) Output(text string) {
	g.outputTagged(text, nil)
}

// OutputLine appends text followed by a line break.
func (g *Game) OutputLine(text string) {
	g.outputTagged(text, nil)
	g.output = append(g.output, newlineToken)
}

// OutputBlankLine appends a bare line break.
func (g *Game) OutputBlankLine() {
	g.output = append(g.output, newlineToken)
}

func (g *Game) outputTagged(text string, w *Word) {
	for _, field := range strings.Fields(text) {
		g.output = append(g.output, Token{Text: field, Word: w})
	}
}

// ExtractOutput drains and returns the pending output stream. The
// caller owns rendering; the stream is empty afterwards.
func (g *Game) ExtractOutput() []Token {
	out := g.output
	g.output = nil
	return out
}

// LookTokens renders the player's current room: description, obvious
// exits and visible items, with exit and item words tagged. In the
// dark without a carried lamp it yields only the darkness line.
func (g *Game) LookTokens() []Token {
	if g.IsDark() {
		return []Token{{Text: "It"}, {Text: "is"}, {Text: "too"}, {Text: "dark"}, {Text: "to"}, {Text: "see"}}
	}

	var tokens []Token
	appendText := func(text string, w *Word) {
		for _, field := range strings.Fields(text) {
			tokens = append(tokens, Token{Text: field, Word: w})
		}
	}

	room := g.PlayerRoom
	appendText(room.lookText(), nil)
	tokens = append(tokens, newlineToken, newlineToken)

	appendText("Obvious exits:", nil)
	anyExit := false
	for d := North; d < directionCount; d++ {
		if room.Exit(d) == nil {
			continue
		}
		anyExit = true
		appendText(d.String(), g.directionWord(d))
	}
	if !anyExit {
		appendText("none.", nil)
	}

	visible := false
	for _, it := range g.Items {
		if it.Room != room {
			continue
		}
		if !visible {
			visible = true
			tokens = append(tokens, newlineToken, newlineToken)
			appendText("I can also see:", nil)
		}
		tagWith := it.CarryWord
		appendText(it.displayText(), tagWith)
	}

	return tokens
}

// directionWord finds the noun Word for a direction, nil if the
// vocabulary never defined it.
func (g *Game) directionWord(d Direction) *Word {
	for w, dir := range g.directions {
		if dir == d {
			return w
		}
	}
	return nil
}

// InventoryText describes what the player is carrying.
func (g *Game) InventoryText() string {
	carried := g.CarriedItems()
	if len(carried) == 0 {
		return "I'm carrying nothing."
	}
	names := make([]string, len(carried))
	for i, it := range carried {
		names[i] = it.carryText()
	}
	return "I'm carrying: " + strings.Join(names, ", ") + "."
}

// ActiveCommands lists the commands currently applicable to a word:
// movement for open exits, GET and DROP for present or carried items,
// and any available command rule keyed on the word as its noun.
func (g *Game) ActiveCommands(w *Word) []string {
	var commands []string
	seen := make(map[string]bool)
	add := func(cmd string) {
		if !seen[cmd] {
			seen[cmd] = true
			commands = append(commands, cmd)
		}
	}

	if d, ok := g.directions[w]; ok && g.PlayerRoom.Exit(d) != nil {
		add("GO " + w.Text)
	}
	for _, it := range g.Items {
		if !it.refersTo(w) {
			continue
		}
		if it.Room == g.PlayerRoom {
			add("GET " + w.Text)
		}
		if it.Room == g.Inventory {
			add("DROP " + w.Text)
		}
	}
	for _, rule := range g.logics {
		if rule.kind != RuleCommand || rule.noun != w || rule.verb == nil {
			continue
		}
		if rule.available(g) {
			add(rule.verb.Text + " " + w.Text)
		}
	}
	return commands
}

// IsPlain reports whether a word currently has no affordances at all.
func (g *Game) IsPlain(w *Word) bool {
	return w == nil || len(g.ActiveCommands(w)) == 0
}
