package game

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// The save format is a fixed, order-significant text layout:
//
//	lines 1..16   "<aux counter> 0"
//	line 17       "<bitflags> <dark> <player room> <counter> 0 <light>"
//	lines 18..    one current-location index per item
//
// Room indices use -1 for the inventory pseudo-room and 0 for "no
// room"; bit i of bitflags mirrors flag i, packed LSB first.

// WriteState serializes all mutable state in the fixed save layout.
func (g *Game) WriteState(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, c := range g.altCounters {
		fmt.Fprintf(bw, "%d 0\n", c)
	}

	bits := uint32(0)
	for i, set := range g.flags {
		if set {
			bits |= 1 << uint(i)
		}
	}
	dark := 0
	if g.flags[DarkFlag] {
		dark = 1
	}
	fmt.Fprintf(bw, "%d %d %d %d 0 %d\n",
		bits, dark, g.roomIndex(g.PlayerRoom), g.counter, g.LightRemaining)

	for _, it := range g.Items {
		fmt.Fprintf(bw, "%d\n", g.roomIndex(it.Room))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing save state: %w", err)
	}
	return nil
}

// ReadState restores mutable state from the fixed save layout. The
// whole save is parsed before anything is applied, so a malformed
// save never leaves the game half-restored. Entities are never
// reallocated; only their live fields change.
func (g *Game) ReadState(r io.Reader) error {
	s := &stateScanner{scanner: bufio.NewScanner(r)}

	var aux [AltCounterCount]int
	for i := range aux {
		fields := s.line(2)
		if s.err != nil {
			return fmt.Errorf("reading saved counter %d: %w", i, s.err)
		}
		aux[i] = fields[0]
	}

	fields := s.line(6)
	if s.err != nil {
		return fmt.Errorf("reading saved state line: %w", s.err)
	}
	bits := uint32(fields[0])
	dark := fields[1] != 0
	playerRoom, err := g.roomByIndex(fields[2])
	if err != nil {
		return fmt.Errorf("reading saved state line: %w", err)
	}
	if playerRoom == nil {
		// Items may sit nowhere, but the player must stand somewhere.
		return fmt.Errorf("reading saved state line: player room %d is not a room", fields[2])
	}
	counter := fields[3]
	light := fields[5]

	itemRooms := make([]*Room, len(g.Items))
	for i := range g.Items {
		f := s.line(1)
		if s.err != nil {
			return fmt.Errorf("reading saved item %d: %w", i, s.err)
		}
		if itemRooms[i], err = g.roomByIndex(f[0]); err != nil {
			return fmt.Errorf("reading saved item %d: %w", i, err)
		}
	}

	// Parsed clean; apply.
	g.altCounters = aux
	for i := range g.flags {
		g.flags[i] = bits&(1<<uint(i)) != 0
	}
	g.flags[DarkFlag] = dark
	g.PlayerRoom = playerRoom
	g.counter = counter
	g.LightRemaining = light
	for i, it := range g.Items {
		it.Room = itemRooms[i]
	}
	g.GameOver = false
	g.wantsRoomUpdate = true
	return nil
}

// roomIndex encodes a location for the save format.
func (g *Game) roomIndex(r *Room) int {
	switch r {
	case nil:
		return 0
	case g.Inventory:
		return -1
	}
	return r.Index
}

// roomByIndex decodes a save-format location.
func (g *Game) roomByIndex(i int) (*Room, error) {
	switch {
	case i == -1:
		return g.Inventory, nil
	case i <= 0:
		return nil, nil
	case i < len(g.Rooms):
		return g.Rooms[i], nil
	}
	return nil, fmt.Errorf("room %d does not exist", i)
}

type stateScanner struct {
	scanner *bufio.Scanner
	err     error
}

// line reads the next save line and parses at least want integer
// fields from it.
func (s *stateScanner) line(want int) []int {
	if s.err != nil {
		return make([]int, want)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			s.err = err
		} else {
			s.err = io.ErrUnexpectedEOF
		}
		return make([]int, want)
	}
	fields := strings.Fields(s.scanner.Text())
	if len(fields) < want {
		s.err = fmt.Errorf("%q: expected %d fields", s.scanner.Text(), want)
		return make([]int, want)
	}
	values := make([]int, want)
	for i := 0; i < want; i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			s.err = fmt.Errorf("%q is not a number", fields[i])
			return values
		}
		values[i] = n
	}
	return values
}
