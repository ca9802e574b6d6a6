package game

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljohnson2/scottdumb/pkg/database"
)

// Raw vocabulary indices used by the test adventure.
const (
	verbGo   = 1
	verbGet  = 2
	verbDrop = 4
	verbOpen = 5
	verbWave = 6

	nounLamp = 7
	nounDoor = 8
	nounCoin = 9
	nounKey  = 10
)

// testFile builds a small adventure: a hall (room 1, start) north of
// nothing and south of a treasure chamber (room 2, treasure room),
// with a coin treasure, a key and the lamp all lying in the hall.
func testFile(actions ...database.Action) *database.File {
	items := []database.Item{
		{Description: "*COIN*", CarryWord: "COIN", StartingRoom: 1},
		{Description: "Brass key", CarryWord: "KEY", StartingRoom: 1},
	}
	for i := 2; i < 9; i++ {
		items = append(items, database.Item{Description: "Bare rock"})
	}
	items = append(items, database.Item{Description: "Old lamp", CarryWord: "LAMP", StartingRoom: 1})

	return &database.File{
		MaxCarried:    2,
		StartingRoom:  1,
		TreasureCount: 1,
		WordLength:    5,
		LightDuration: 3,
		TreasureRoom:  2,
		Actions:       actions,
		Verbs:         []string{"AUT", "GO", "GET", "*TAKE", "DROP", "OPEN", "WAVE"},
		Nouns:         []string{"ANY", "NORTH", "SOUTH", "EAST", "WEST", "UP", "DOWN", "LAMP", "DOOR", "COIN", "KEY"},
		Rooms: []database.Room{
			{Description: "nowhere"},
			{Exits: [6]int{2, 0, 0, 0, 0, 0}, Description: "dusty hall"},
			{Exits: [6]int{0, 1, 0, 0, 0, 0}, Description: "*Treasure chamber"},
		},
		Messages: []string{"", "Something stirs.", "A hollow voice says PLUGH.", "The door swings open."},
		Items:    items,
	}
}

func testGame(t *testing.T, actions ...database.Action) *Game {
	t.Helper()
	g, err := New(testFile(actions...))
	require.NoError(t, err)
	g.Seed(1)
	return g
}

// packAction packs a rule the way the database does, with explicit
// condition slots.
func packAction(verb, noun int, conditions []database.Condition, opcodes ...int) database.Action {
	for len(conditions) < 5 {
		conditions = append(conditions, database.Condition{})
	}
	for len(opcodes) < 4 {
		opcodes = append(opcodes, 0)
	}
	return database.Action{Verb: verb, Noun: noun, Conditions: conditions, Opcodes: opcodes}
}

func arg(value int) database.Condition {
	return database.Condition{Opcode: 0, Operand: value}
}

func cond(opcode, operand int) database.Condition {
	return database.Condition{Opcode: opcode, Operand: operand}
}

// outputText flattens the pending output stream for assertions.
func outputText(g *Game) string {
	var b strings.Builder
	for _, tok := range g.ExtractOutput() {
		if tok.IsNewline() {
			b.WriteString("\n")
		} else {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString(" ")
			}
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}

func TestVocabularyInterning(t *testing.T) {
	g := testGame(t)

	// Synonyms resolve to the same interned word.
	getWord := g.verbs["GET"]
	require.NotNil(t, getWord)
	assert.Same(t, getWord, g.verbs["TAKE"])

	// Every alias round-trips to the canonical word.
	for _, alias := range getWord.Aliases {
		assert.Same(t, getWord, g.verbs[alias])
	}

	// Spellings are truncated to the configured word length, so the
	// invented INVENTORY verb answers to its first five letters.
	inv := g.verbs["INVEN"]
	require.NotNil(t, inv)
	verb, _, err := g.ParseCommand("inventory")
	require.NoError(t, err)
	assert.Same(t, inv, verb)
}

func TestDirectionAliases(t *testing.T) {
	g := testGame(t)

	north := g.nouns["NORTH"]
	require.NotNil(t, north)
	assert.Same(t, north, g.nouns["N"], "single-letter alias is force-added")

	_, noun, err := g.ParseCommand("n")
	require.NoError(t, err)
	assert.Same(t, north, noun)
}

func TestParseCommand(t *testing.T) {
	g := testGame(t)

	t.Run("verb and noun", func(t *testing.T) {
		verb, noun, err := g.ParseCommand("get lamp")
		require.NoError(t, err)
		assert.Same(t, g.verbs["GET"], verb)
		assert.Same(t, g.nouns["LAMP"], noun)
	})

	t.Run("bare noun fallback ignores second token", func(t *testing.T) {
		verb, noun, err := g.ParseCommand("north door")
		require.NoError(t, err)
		assert.Nil(t, verb)
		assert.Same(t, g.nouns["NORTH"], noun)
	})

	t.Run("too many tokens", func(t *testing.T) {
		_, _, err := g.ParseCommand("get the lamp")
		require.Error(t, err)
		assert.True(t, IsPlayerError(err))
	})

	t.Run("unknown verb suggests a near word", func(t *testing.T) {
		_, _, err := g.ParseCommand("gett")
		require.Error(t, err)
		assert.True(t, IsPlayerError(err))
		assert.Contains(t, err.Error(), "verb")
		assert.Contains(t, err.Error(), `"GET"`)
	})

	t.Run("unknown noun is a noun-context error", func(t *testing.T) {
		_, _, err := g.ParseCommand("get xyzzy")
		require.Error(t, err)
		assert.True(t, IsPlayerError(err))
		assert.Contains(t, err.Error(), "noun")
	})
}

func TestBuiltinGo(t *testing.T) {
	g := testGame(t)
	ctx := context.Background()

	hall := g.Rooms[1]
	chamber := g.Rooms[2]
	require.Same(t, hall, g.PlayerRoom)

	// Bare direction moves the player.
	verb, noun, err := g.ParseCommand("NORTH")
	require.NoError(t, err)
	require.NoError(t, g.PerformCommand(ctx, verb, noun))
	assert.Same(t, chamber, g.PlayerRoom)
	assert.True(t, g.NeedsRoomUpdate())

	// A missing exit never moves the player.
	verb, noun, err = g.ParseCommand("go east")
	require.NoError(t, err)
	err = g.PerformCommand(ctx, verb, noun)
	require.Error(t, err)
	assert.True(t, IsPlayerError(err))
	assert.Contains(t, err.Error(), "can't go")
	assert.Same(t, chamber, g.PlayerRoom)
}

func TestBuiltinGetAndDrop(t *testing.T) {
	g := testGame(t)
	ctx := context.Background()
	lamp := g.Items[9]

	perform := func(cmd string) error {
		verb, noun, err := g.ParseCommand(cmd)
		if err != nil {
			return err
		}
		return g.PerformCommand(ctx, verb, noun)
	}

	require.NoError(t, perform("get lamp"))
	assert.Same(t, g.Inventory, lamp.Room)
	assert.Contains(t, outputText(g), "O.K.")

	err := perform("get lamp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already carrying")

	// The carry limit is two in the test adventure.
	require.NoError(t, perform("get key"))
	err = perform("get coin")
	require.Error(t, err)
	assert.True(t, IsPlayerError(err))
	assert.Contains(t, err.Error(), "too much to carry")
	assert.Same(t, g.Rooms[1], g.Items[0].Room, "failed get leaves the item alone")

	require.NoError(t, perform("drop lamp"))
	assert.Same(t, g.PlayerRoom, lamp.Room)

	err = perform("drop lamp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not carrying")
}

func TestItemLocationIsExclusive(t *testing.T) {
	g := testGame(t)
	coin := g.Items[0]

	g.MoveItem(coin, g.Inventory)
	assert.Same(t, g.Inventory, coin.Room)

	g.MoveItem(coin, nil)
	assert.Nil(t, coin.Room)

	g.MoveItem(coin, g.Rooms[2])
	assert.Same(t, g.Rooms[2], coin.Room)
}

func TestScore(t *testing.T) {
	g := testGame(t)
	coin := g.Items[0]
	chamber := g.Rooms[2]

	assert.Equal(t, 0, g.Score())

	// All treasures stored, but the player is elsewhere: reported,
	// not won.
	g.MoveItem(coin, chamber)
	g.CheckScore()
	out := outputText(g)
	assert.Contains(t, out, "I've stored 1 treasures.")
	assert.Contains(t, out, "rates a 100")
	assert.False(t, g.GameOver)

	// Standing in the treasure room at 100 ends the game.
	g.MovePlayer(chamber)
	g.CheckScore()
	assert.Contains(t, outputText(g), "Well done.")
	assert.True(t, g.GameOver)
}

func TestDarknessSuppressesLook(t *testing.T) {
	// OPEN DOOR turns the lights out (opcode 56).
	g := testGame(t, packAction(verbOpen, nounDoor, nil, 56))
	ctx := context.Background()

	look := func() string {
		var b strings.Builder
		for _, tok := range g.LookTokens() {
			b.WriteString(tok.Text)
			b.WriteString(" ")
		}
		return b.String()
	}

	assert.Contains(t, look(), "dusty hall")

	verb, noun, err := g.ParseCommand("open door")
	require.NoError(t, err)
	require.NoError(t, g.PerformCommand(ctx, verb, noun))
	assert.True(t, g.Flag(DarkFlag))
	assert.Contains(t, look(), "too dark to see")

	// Picking up the lamp restores sight the same turn.
	verb, noun, err = g.ParseCommand("get lamp")
	require.NoError(t, err)
	require.NoError(t, g.PerformCommand(ctx, verb, noun))
	assert.Contains(t, look(), "dusty hall")
}

func TestLookTokensTagWords(t *testing.T) {
	g := testGame(t)

	var northTagged, lampTagged bool
	for _, tok := range g.LookTokens() {
		if tok.Text == "North" && tok.Word == g.nouns["NORTH"] {
			northTagged = true
		}
		if tok.Word == g.nouns["LAMP"] {
			lampTagged = true
		}
	}
	assert.True(t, northTagged, "exit word carries its noun")
	assert.True(t, lampTagged, "item text carries its carry word")
}

func TestActiveCommands(t *testing.T) {
	g := testGame(t)

	assert.Contains(t, g.ActiveCommands(g.nouns["NORTH"]), "GO NORTH")
	assert.Contains(t, g.ActiveCommands(g.nouns["LAMP"]), "GET LAMP")
	assert.False(t, g.IsPlain(g.nouns["LAMP"]))

	g.MoveItem(g.Items[9], g.Inventory)
	assert.Contains(t, g.ActiveCommands(g.nouns["LAMP"]), "DROP LAMP")

	// South has no exit from the hall and no item answers to DOOR.
	assert.Empty(t, g.ActiveCommands(g.nouns["SOUTH"]))
	assert.True(t, g.IsPlain(g.nouns["DOOR"]))
}

func TestInventoryText(t *testing.T) {
	g := testGame(t)
	assert.Equal(t, "I'm carrying nothing.", g.InventoryText())

	g.MoveItem(g.Items[9], g.Inventory)
	assert.Contains(t, g.InventoryText(), "Old lamp")
}
