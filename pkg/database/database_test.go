package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleAdventure is a tiny but complete database: two actions, four
// vocabulary pairs, three rooms, two messages and two items.
const sampleAdventure = `0
1
1
3
2
6
1
1
3
100
1
2
152
100
22
0
0
0
8100
0
75
0
0
0
0
0
150
0
"AUT"
"ANY"
"GO"
"NOR"
"*ENT"
"*N"
"GET"
"LAM"
0
0
0
0
0
0
""
2
0
0
0
0
0
"Dusty hall"
0
1
0
0
0
0
"*Treasure chamber"
"First line
second line"
"Blast!"
"*GOLD*/GOL/" 1
"Old lamp/LAM/" 1
"do the thing"
""
`

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(sampleAdventure))
	require.NoError(t, err)

	t.Run("header", func(t *testing.T) {
		assert.Equal(t, 6, f.MaxCarried)
		assert.Equal(t, 1, f.StartingRoom)
		assert.Equal(t, 1, f.TreasureCount)
		assert.Equal(t, 3, f.WordLength)
		assert.Equal(t, 100, f.LightDuration)
		assert.Equal(t, 2, f.TreasureRoom)
	})

	t.Run("actions", func(t *testing.T) {
		require.Len(t, f.Actions, 2)

		// 152 packs verb 1 noun 2; 100 is the argument carrier 5;
		// 22 is condition opcode 2 on item 1; 8100 packs opcode 54.
		cmd := f.Actions[0]
		assert.Equal(t, 1, cmd.Verb)
		assert.Equal(t, 2, cmd.Noun)
		require.Len(t, cmd.Conditions, 5)
		assert.Equal(t, Condition{Opcode: 0, Operand: 5}, cmd.Conditions[0])
		assert.Equal(t, Condition{Opcode: 2, Operand: 1}, cmd.Conditions[1])
		assert.Equal(t, Condition{}, cmd.Conditions[2])
		assert.Equal(t, []int{54, 0, 0, 0}, cmd.Opcodes)
		assert.Equal(t, "do the thing", cmd.Comment)

		// Verb zero with a nonzero noun is an occurrence; the noun is
		// its percent chance.
		occ := f.Actions[1]
		assert.Equal(t, 0, occ.Verb)
		assert.Equal(t, 75, occ.Noun)
		assert.Equal(t, []int{1, 0, 0, 0}, occ.Opcodes)
		assert.Equal(t, "", occ.Comment)
	})

	t.Run("vocabulary", func(t *testing.T) {
		assert.Equal(t, []string{"AUT", "GO", "*ENT", "GET"}, f.Verbs)
		assert.Equal(t, []string{"ANY", "NOR", "*N", "LAM"}, f.Nouns)
	})

	t.Run("rooms", func(t *testing.T) {
		require.Len(t, f.Rooms, 3)
		assert.Equal(t, [6]int{2, 0, 0, 0, 0, 0}, f.Rooms[1].Exits)
		assert.Equal(t, "Dusty hall", f.Rooms[1].Description)
		assert.Equal(t, "*Treasure chamber", f.Rooms[2].Description)
	})

	t.Run("messages", func(t *testing.T) {
		require.Len(t, f.Messages, 2)
		assert.Equal(t, "First line\nsecond line", f.Messages[0])
		assert.Equal(t, "Blast!", f.Messages[1])
	})

	t.Run("items", func(t *testing.T) {
		require.Len(t, f.Items, 2)
		assert.Equal(t, Item{Description: "*GOLD*", CarryWord: "GOL", StartingRoom: 1}, f.Items[0])
		assert.Equal(t, Item{Description: "Old lamp", CarryWord: "LAM", StartingRoom: 1}, f.Items[1])
	})
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		mangle  func(string) string
		wantErr string
	}{
		{
			name:    "truncated",
			mangle:  func(s string) string { return s[:40] },
			wantErr: "unexpected end of file",
		},
		{
			name:    "not a number",
			mangle:  func(s string) string { return strings.Replace(s, "152", "frog", 1) },
			wantErr: "is not a number",
		},
		{
			name:    "unquoted string",
			mangle:  func(s string) string { return strings.Replace(s, `"AUT"`, "AUT", 1) },
			wantErr: "is not a string",
		},
		{
			name:    "item without starting room",
			mangle:  func(s string) string { return strings.Replace(s, `"*GOLD*/GOL/" 1`, `"*GOLD*/GOL/"`, 1) },
			wantErr: "starting room",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.mangle(sampleAdventure)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGroupWords(t *testing.T) {
	groups := GroupWords([]string{"AUT", "GO", "*ENT", "*RUN", ".", "GET", "*.", "DRO"})
	assert.Equal(t, [][]string{
		{"AUT"},
		{"GO", "ENT", "RUN"},
		{"GET"},
		{"DRO"},
	}, groups)
}

func TestSplitNumber(t *testing.T) {
	high, low := SplitNumber(152, VocabBase)
	assert.Equal(t, 1, high)
	assert.Equal(t, 2, low)

	high, low = SplitNumber(102, ConditionBase)
	assert.Equal(t, 5, high)
	assert.Equal(t, 2, low)
}
