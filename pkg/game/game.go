// Package game is the Scott Adventure virtual machine: the live world
// model built from a decoded database, the compiled condition/action
// rules, and the turn engine that drives them.
//
// A Game is not safe for concurrent use. The caller must serialize
// every turn-level call (PerformOccurrences, PerformCommand, state
// save and restore) on a single goroutine or behind its own lock.
package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/danieljohnson2/scottdumb/pkg/database"
)

const (
	// FlagCount is the fixed number of general-purpose flags.
	FlagCount = 32

	// DarkFlag suppresses room and item text unless the lamp is carried.
	DarkFlag = 15

	// LampDeadFlag is set once when the lamp's light runs out.
	LampDeadFlag = 16

	// AltCounterCount is the number of auxiliary counters.
	AltCounterCount = 16

	// SavedRoomCount is the number of player-room bookmarks: slot 0
	// is the default, the rest are addressed by opcode operand.
	SavedRoomCount = 17

	// lampItemIndex is the positional convention for the light
	// source: the 10th item by load order.
	lampItemIndex = 9

	// delayDuration is the pause applied by the delay opcode.
	delayDuration = 500 * time.Millisecond
)

// Game holds a loaded adventure: the immutable world entities, the
// compiled rules, and all mutable play state.
type Game struct {
	Rooms    []*Room
	Items    []*Item
	Messages []string

	// Inventory is the pseudo-room holding carried items.
	Inventory  *Room
	PlayerRoom *Room

	// GameOver is set by the finish and victory opcodes; no further
	// turns run once it is true.
	GameOver bool

	WordLength    int
	MaxCarried    int
	TreasureCount int
	TreasureRoom  *Room
	LightDuration int

	// LightRemaining counts down each turn the lamp is carried.
	LightRemaining int

	flags       [FlagCount]bool
	counter     int
	altCounters [AltCounterCount]int
	savedRooms  [SavedRoomCount]*Room

	verbs      map[string]*Word
	nouns      map[string]*Word
	directions map[*Word]Direction

	goVerb        *Word
	getVerb       *Word
	dropVerb      *Word
	inventoryVerb *Word
	scoreVerb     *Word

	lamp   *Item
	logics []*Rule

	output     []Token
	parsedNoun string

	// continuing is set by the continue opcode and consumed by the
	// dispatch chain.
	continuing bool

	// needsRoomUpdate is forced by the describe-room opcode;
	// wantsRoomUpdate tracks ordinary player movement. The caller
	// clears both after redrawing.
	needsRoomUpdate bool
	wantsRoomUpdate bool

	rng *rand.Rand

	// Flush, when set, is called to drain pending output before the
	// delay opcode suspends the turn.
	Flush func()

	// SaveRequested is set by the save opcode; the caller services it
	// after the turn completes.
	SaveRequested bool
}

// New builds a playable Game from a decoded database. Rules are
// compiled here, once; an undefined opcode or an exhausted argument
// queue is a fatal error and no Game is returned.
func New(f *database.File) (*Game, error) {
	g := &Game{
		Messages:       f.Messages,
		WordLength:     f.WordLength,
		MaxCarried:     f.MaxCarried,
		TreasureCount:  f.TreasureCount,
		LightDuration:  f.LightDuration,
		LightRemaining: f.LightDuration,
		verbs:          make(map[string]*Word),
		nouns:          make(map[string]*Word),
		directions:     make(map[*Word]Direction),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	g.Inventory = &Room{Index: -1, Description: "inventory"}

	g.Rooms = make([]*Room, len(f.Rooms))
	for i, src := range f.Rooms {
		g.Rooms[i] = &Room{Index: i, Description: src.Description}
	}
	for i, src := range f.Rooms {
		for d := North; d < directionCount; d++ {
			if idx := src.Exits[d]; idx > 0 {
				if idx >= len(g.Rooms) {
					return nil, fmt.Errorf("room %d: exit %s leads to missing room %d", i, d, idx)
				}
				g.Rooms[i].exits[d] = g.Rooms[idx]
			}
		}
	}

	if f.StartingRoom < 0 || f.StartingRoom >= len(g.Rooms) {
		return nil, fmt.Errorf("starting room %d does not exist", f.StartingRoom)
	}
	g.PlayerRoom = g.Rooms[f.StartingRoom]
	for i := range g.savedRooms {
		g.savedRooms[i] = g.Rooms[0]
	}

	if f.TreasureRoom < 0 || f.TreasureRoom >= len(g.Rooms) {
		return nil, fmt.Errorf("treasure room %d does not exist", f.TreasureRoom)
	}
	g.TreasureRoom = g.Rooms[f.TreasureRoom]

	internWords(database.GroupWords(f.Verbs), f.WordLength, g.verbs)
	internWords(database.GroupWords(f.Nouns), f.WordLength, g.nouns)
	g.resolveDirections(f.Nouns)
	g.resolveBuiltins()

	g.Items = make([]*Item, len(f.Items))
	for i, src := range f.Items {
		it := &Item{
			Index:       i,
			Description: src.Description,
			Treasure:    isTreasure(src.Description),
		}
		if src.CarryWord != "" {
			it.CarryWord = g.internNoun(src.CarryWord)
		}
		switch {
		case src.StartingRoom < 0:
			it.StartingRoom = g.Inventory
		case src.StartingRoom == 0:
			it.StartingRoom = nil
		case src.StartingRoom < len(g.Rooms):
			it.StartingRoom = g.Rooms[src.StartingRoom]
		default:
			return nil, fmt.Errorf("item %d: starting room %d does not exist", i, src.StartingRoom)
		}
		it.Room = it.StartingRoom
		g.Items[i] = it
	}
	if len(g.Items) > lampItemIndex {
		g.lamp = g.Items[lampItemIndex]
	}

	g.logics = make([]*Rule, 0, len(f.Actions))
	for i, src := range f.Actions {
		rule, err := g.compileRule(f, src)
		if err != nil {
			return nil, fmt.Errorf("compiling action %d: %w", i, err)
		}
		g.logics = append(g.logics, rule)
	}

	g.wantsRoomUpdate = true
	return g, nil
}

// Seed replaces the occurrence-roll random source, mainly so tests
// can make chance rolls deterministic.
func (g *Game) Seed(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
}

// resolveDirections maps the six conventional direction nouns (raw
// indices 1-6) and force-adds their single-letter aliases whether or
// not the source vocabulary contains them.
func (g *Game) resolveDirections(rawNouns []string) {
	shorts := [directionCount]string{"N", "S", "E", "W", "U", "D"}
	for d := North; d < directionCount; d++ {
		idx := int(d) + 1
		if idx >= len(rawNouns) {
			break
		}
		w := g.lookupNoun(rawNouns[idx])
		if w == nil {
			continue
		}
		g.directions[w] = d
		alias := normalize(shorts[d], g.WordLength)
		if _, taken := g.nouns[alias]; !taken {
			g.nouns[alias] = w
			w.Aliases = append(w.Aliases, alias)
		}
	}
}

// resolveBuiltins finds (or invents) the verbs backing the fallback
// commands. GO, GET and DROP normally exist in the source vocabulary;
// INVENTORY and SCORE are interned if missing so the words always
// parse.
func (g *Game) resolveBuiltins() {
	g.goVerb = g.lookupVerb("GO")
	g.getVerb = g.lookupVerb("GET")
	g.dropVerb = g.lookupVerb("DROP")
	g.inventoryVerb = g.internVerb("INVENTORY")
	g.scoreVerb = g.internVerb("SCORE")
}

func (g *Game) lookupVerb(text string) *Word {
	return g.verbs[normalize(trimSynonym(text), g.WordLength)]
}

func (g *Game) lookupNoun(text string) *Word {
	return g.nouns[normalize(trimSynonym(text), g.WordLength)]
}

func (g *Game) internVerb(text string) *Word {
	if w := g.lookupVerb(text); w != nil {
		return w
	}
	alias := normalize(text, g.WordLength)
	w := &Word{Text: alias, Aliases: []string{alias}}
	g.verbs[alias] = w
	return w
}

func (g *Game) internNoun(text string) *Word {
	if w := g.lookupNoun(text); w != nil {
		return w
	}
	alias := normalize(text, g.WordLength)
	w := &Word{Text: alias, Aliases: []string{alias}}
	g.nouns[alias] = w
	return w
}

func trimSynonym(text string) string {
	if len(text) > 0 && text[0] == '*' {
		return text[1:]
	}
	return text
}

func isTreasure(description string) bool {
	return len(description) > 0 && description[0] == '*'
}

// Flag reports the state of one scripting flag.
func (g *Game) Flag(i int) bool {
	return i >= 0 && i < FlagCount && g.flags[i]
}

// Counter returns the primary counter value.
func (g *Game) Counter() int { return g.counter }

// IsDark reports whether descriptive output is suppressed: the
// darkness flag is set and the lamp is not carried.
func (g *Game) IsDark() bool {
	if !g.flags[DarkFlag] {
		return false
	}
	return g.lamp == nil || g.lamp.Room != g.Inventory
}

// MoveItem relocates an item. A nil room removes it from play.
func (g *Game) MoveItem(it *Item, room *Room) {
	it.Room = room
}

// SwapItems exchanges the locations of two items.
func (g *Game) SwapItems(a, b *Item) {
	a.Room, b.Room = b.Room, a.Room
}

// CarriedItems returns the items currently in inventory, in
// declaration order.
func (g *Game) CarriedItems() []*Item {
	var carried []*Item
	for _, it := range g.Items {
		if it.Room == g.Inventory {
			carried = append(carried, it)
		}
	}
	return carried
}

// GetItem moves an item into inventory. Unless force is set, the
// carry limit applies and exceeding it is a recoverable player error.
func (g *Game) GetItem(it *Item, force bool) error {
	if !force && len(g.CarriedItems()) >= g.MaxCarried {
		return playerErrorf("I've too much to carry!")
	}
	g.MoveItem(it, g.Inventory)
	return nil
}

// DropItem places an item in the player's current room.
func (g *Game) DropItem(it *Item) {
	g.MoveItem(it, g.PlayerRoom)
}

// MovePlayer relocates the player and schedules a room redisplay.
func (g *Game) MovePlayer(room *Room) {
	g.PlayerRoom = room
	g.wantsRoomUpdate = true
}

// die is the death opcode: the player wakes in the last room with the
// darkness lifted.
func (g *Game) die() {
	g.MovePlayer(g.Rooms[len(g.Rooms)-1])
	g.flags[DarkFlag] = false
}

// refillLamp restores the full light budget and puts the lamp in
// inventory.
func (g *Game) refillLamp() {
	g.LightRemaining = g.LightDuration
	g.flags[LampDeadFlag] = false
	if g.lamp != nil {
		g.MoveItem(g.lamp, g.Inventory)
	}
}

// storedTreasures counts treasures currently in the treasure room.
func (g *Game) storedTreasures() int {
	stored := 0
	for _, it := range g.Items {
		if it.Treasure && it.Room == g.TreasureRoom {
			stored++
		}
	}
	return stored
}

// Score computes the treasure score: the percentage of treasures
// currently stored in the treasure room.
func (g *Game) Score() int {
	if g.TreasureCount == 0 {
		return 0
	}
	return g.storedTreasures() * 100 / g.TreasureCount
}

// CheckScore reports the score and ends the game in victory when
// every treasure is stored and the player is standing in the treasure
// room at the moment of the check.
func (g *Game) CheckScore() {
	score := g.Score()
	g.OutputLine(fmt.Sprintf("I've stored %d treasures.", g.storedTreasures()))
	g.OutputLine(fmt.Sprintf("On a scale of 0 to 100, that rates a %d.", score))
	if score == 100 && g.PlayerRoom == g.TreasureRoom {
		g.OutputLine("Well done.")
		g.GameOver = true
	}
}

// decayLight burns one turn of lamp light when the lamp is carried,
// raising the lamp-dead flag exactly once when the budget empties.
func (g *Game) decayLight() {
	if g.lamp == nil || g.lamp.Room != g.Inventory || g.LightRemaining <= 0 {
		return
	}
	g.LightRemaining--
	if g.LightRemaining == 0 {
		g.flags[LampDeadFlag] = true
		g.OutputLine("Light has run out!")
	}
}

// delay suspends the current action chain for a short real-time
// pause, draining pending output first. Cancelling the context
// abandons the rest of the chain without reapplying anything.
func (g *Game) delay(ctx context.Context) error {
	if g.Flush != nil {
		g.Flush()
	}
	timer := time.NewTimer(delayDuration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NeedsRoomUpdate reports whether the room view must be redrawn,
// either because the player moved or an opcode demanded it.
func (g *Game) NeedsRoomUpdate() bool {
	return g.needsRoomUpdate || g.wantsRoomUpdate
}

// ClearRoomUpdate acknowledges a redraw.
func (g *Game) ClearRoomUpdate() {
	g.needsRoomUpdate = false
	g.wantsRoomUpdate = false
}
