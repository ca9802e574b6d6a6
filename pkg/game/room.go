package game

import "strings"

// Direction indexes the six room exits in database order.
type Direction int

const (
	North Direction = iota
	South
	East
	West
	Up
	Down
	directionCount
)

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	case Up:
		return "Up"
	case Down:
		return "Down"
	}
	return "?"
}

// Room is one location node. Rooms are built once per loaded game and
// never destroyed; exits may be asymmetric or one-way.
type Room struct {
	// Index is the room's position in the database, used by the save
	// format. The inventory pseudo-room has index -1.
	Index       int
	Description string

	exits [directionCount]*Room
}

// Exit returns the room reached by moving in the given direction, or
// nil if there is no exit that way.
func (r *Room) Exit(d Direction) *Room {
	if d < 0 || d >= directionCount {
		return nil
	}
	return r.exits[d]
}

// lookText is the bare room description. A leading '*' marks text to
// show verbatim; anything else reads as "I'm in a ...".
func (r *Room) lookText() string {
	if strings.HasPrefix(r.Description, "*") {
		return r.Description[1:]
	}
	return "I'm in a " + r.Description
}
