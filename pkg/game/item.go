package game

import "strings"

// Item is one movable or fixed object. Items are never destroyed; one
// that leaves play simply has a nil Room.
type Item struct {
	// Index is the item's position in the database, used by the save
	// format and by rule operands.
	Index       int
	Description string

	// Treasure marks items that count toward the score, derived from
	// the '*' marker in the description text.
	Treasure bool

	// CarryWord lets generic GET and DROP refer to this item by name.
	// Nil means the item cannot be picked up that way.
	CarryWord *Word

	// Room is the item's current location: a world room, the
	// inventory pseudo-room, or nil for out of play.
	Room *Room

	// StartingRoom is where the item began, for "is it back where it
	// started" conditions. Never changes after the game is built.
	StartingRoom *Room
}

// displayText is the description with the treasure marker kept intact;
// treasures read like "*GOLDEN CROWN*" in room text by convention.
func (it *Item) displayText() string {
	return it.Description
}

// carryText strips the treasure markers for carry and drop reporting.
func (it *Item) carryText() string {
	return strings.TrimSpace(strings.ReplaceAll(it.Description, "*", ""))
}

// refersTo reports whether the given noun names this item.
func (it *Item) refersTo(w *Word) bool {
	return w != nil && it.CarryWord == w
}
