// Package database decodes the classic Scott Adams adventure database
// format: a line-oriented stream of integers and quoted strings holding
// the header, encoded action rules, vocabulary, rooms, messages and items.
package database

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Verb/noun selectors and action opcodes are packed two-per-integer
// with these bases.
const (
	VocabBase     = 150
	ConditionBase = 20
)

// File holds everything decoded from one adventure database, still in
// index form. Room, item and word indices are resolved by the game
// package when it builds the live world.
type File struct {
	MaxCarried    int
	StartingRoom  int
	TreasureCount int
	WordLength    int
	LightDuration int
	TreasureRoom  int

	Actions  []Action
	Verbs    []string // raw vocabulary, index order, synonyms still * prefixed
	Nouns    []string
	Rooms    []Room
	Messages []string
	Items    []Item
}

// Action is one encoded rule. Verb 0 marks an occurrence, in which case
// Noun is a percent chance; verb and noun 0 marks a continuation.
type Action struct {
	Verb       int
	Noun       int
	Conditions []Condition // always five entries
	Opcodes    []int       // always four entries
	Comment    string
}

// Condition is a decoded condition slot. Opcode 0 carries an argument
// for the rule's actions instead of testing anything.
type Condition struct {
	Opcode  int
	Operand int
}

// Room is a decoded room record. Exit indices of zero (or less) mean
// no exit in that direction.
type Room struct {
	Exits       [6]int // north, south, east, west, up, down
	Description string
}

// Item is a decoded item record. A negative StartingRoom means the
// item starts in the player's inventory. CarryWord is empty when the
// item cannot be picked up or dropped by name.
type Item struct {
	Description  string
	StartingRoom int
	CarryWord    string
}

// Decode reads a complete adventure database in a single forward pass.
// Any malformed number, unquoted string or truncated record is fatal.
func Decode(r io.Reader) (*File, error) {
	d := &decoder{r: bufio.NewReader(r)}
	f := &File{}

	d.num() // unknown leading value, ignored
	maxItem := d.num()
	maxAction := d.num()
	maxWord := d.num()
	maxRoom := d.num()
	f.MaxCarried = d.num()
	f.StartingRoom = d.num()
	f.TreasureCount = d.num()
	f.WordLength = d.num()
	f.LightDuration = d.num()
	maxMessage := d.num()
	f.TreasureRoom = d.num()
	if d.err != nil {
		return nil, fmt.Errorf("reading header: %w", d.err)
	}

	f.Actions = make([]Action, maxAction+1)
	for i := range f.Actions {
		f.Actions[i] = d.action()
		if d.err != nil {
			return nil, fmt.Errorf("reading action %d: %w", i, d.err)
		}
	}

	// Verbs and nouns are interleaved, one pair per line group.
	for i := 0; i <= maxWord; i++ {
		f.Verbs = append(f.Verbs, d.str())
		f.Nouns = append(f.Nouns, d.str())
		if d.err != nil {
			return nil, fmt.Errorf("reading vocabulary entry %d: %w", i, d.err)
		}
	}

	f.Rooms = make([]Room, maxRoom+1)
	for i := range f.Rooms {
		var rm Room
		for j := 0; j < 6; j++ {
			rm.Exits[j] = d.num()
		}
		rm.Description = d.str()
		if d.err != nil {
			return nil, fmt.Errorf("reading room %d: %w", i, d.err)
		}
		f.Rooms[i] = rm
	}

	f.Messages = make([]string, maxMessage+1)
	for i := range f.Messages {
		f.Messages[i] = d.str()
		if d.err != nil {
			return nil, fmt.Errorf("reading message %d: %w", i, d.err)
		}
	}

	f.Items = make([]Item, maxItem+1)
	for i := range f.Items {
		desc, extra := d.strPlus()
		if d.err != nil {
			return nil, fmt.Errorf("reading item %d: %w", i, d.err)
		}
		room, err := strconv.Atoi(strings.TrimSpace(extra))
		if err != nil {
			return nil, fmt.Errorf("reading item %d: starting room %q is not a number", i, extra)
		}
		f.Items[i] = splitCarryWord(desc, room)
	}

	for i := range f.Actions {
		f.Actions[i].Comment = strings.TrimSpace(d.str())
		if d.err != nil {
			return nil, fmt.Errorf("reading comment for action %d: %w", i, d.err)
		}
	}

	return f, nil
}

// splitCarryWord peels a trailing "/WORD/" suffix off an item
// description; the word allows generic GET and DROP to refer to it.
func splitCarryWord(desc string, room int) Item {
	it := Item{Description: desc, StartingRoom: room}
	if strings.HasSuffix(desc, "/") {
		start := strings.LastIndex(desc[:len(desc)-1], "/")
		if start >= 0 {
			it.CarryWord = desc[start+1 : len(desc)-1]
			it.Description = desc[:start]
		}
	}
	return it
}

// GroupWords clusters a raw vocabulary list into synonym groups. An
// entry starting with '*' joins the group of the preceding word, and
// the padding entries "." and "*." contribute nothing at all.
func GroupWords(words []string) [][]string {
	var grouped [][]string
	var buffer []string
	for _, w := range words {
		switch {
		case w == "." || w == "*." || w == "":
			// padding
		case strings.HasPrefix(w, "*"):
			buffer = append(buffer, w[1:])
		case len(buffer) == 0:
			buffer = append(buffer, w)
		default:
			grouped = append(grouped, buffer)
			buffer = []string{w}
		}
	}
	if len(buffer) > 0 {
		grouped = append(grouped, buffer)
	}
	return grouped
}

// SplitNumber decodes a packed integer into (high, low) where
// n = high*base + low.
func SplitNumber(n, base int) (high, low int) {
	return n / base, n % base
}

// decoder tracks the first error encountered so the read methods can
// be chained without checking after every call.
type decoder struct {
	r   *bufio.Reader
	err error
}

func (d *decoder) num() int {
	if d.err != nil {
		return 0
	}
	line, err := d.r.ReadString('\n')
	if line == "" && err != nil {
		d.err = fmt.Errorf("unexpected end of file: %w", err)
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		d.err = fmt.Errorf("%q is not a number", strings.TrimSpace(line))
		return 0
	}
	return n
}

func (d *decoder) action() Action {
	a := Action{
		Conditions: make([]Condition, 5),
		Opcodes:    make([]int, 0, 4),
	}
	a.Verb, a.Noun = SplitNumber(d.num(), VocabBase)
	for i := range a.Conditions {
		operand, opcode := SplitNumber(d.num(), ConditionBase)
		a.Conditions[i] = Condition{Opcode: opcode, Operand: operand}
	}
	for i := 0; i < 2; i++ {
		high, low := SplitNumber(d.num(), VocabBase)
		a.Opcodes = append(a.Opcodes, high, low)
	}
	return a
}

// strPlus reads a double-quoted, possibly multi-line string and
// returns it together with any extra text trailing the closing quote.
func (d *decoder) strPlus() (content, extra string) {
	if d.err != nil {
		return "", ""
	}
	var buffer strings.Builder
	first := true
	for {
		line, err := d.r.ReadString('\n')
		if line == "" && err != nil {
			d.err = fmt.Errorf("unexpected end of file in string: %w", err)
			return "", ""
		}
		if first {
			if !strings.HasPrefix(line, `"`) {
				d.err = fmt.Errorf("%q is not a string", strings.TrimRight(line, "\r\n"))
				return "", ""
			}
			line = line[1:]
			first = false
		}
		end := strings.LastIndex(line, `"`)
		if end < 0 {
			buffer.WriteString(line)
			if err != nil {
				d.err = fmt.Errorf("unexpected end of file in string: %w", err)
				return "", ""
			}
			continue
		}
		buffer.WriteString(line[:end])
		return buffer.String(), line[end+1:]
	}
}

func (d *decoder) str() string {
	s, _ := d.strPlus()
	return s
}
