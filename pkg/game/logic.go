package game

import (
	"context"
	"fmt"

	"github.com/danieljohnson2/scottdumb/pkg/database"
)

// RuleKind separates the three ways a rule can fire.
type RuleKind int

const (
	// RuleOccurrence fires probabilistically before each command.
	RuleOccurrence RuleKind = iota

	// RuleCommand fires on a matching verb (and optional noun).
	RuleCommand

	// RuleContinuation fires only when a preceding rule in the same
	// list asked to continue.
	RuleContinuation
)

// Rule is one compiled unit of game logic. Conditions and actions are
// decoded exactly once, with operands resolved to live entities; only
// the world state they read and write changes afterwards.
type Rule struct {
	kind    RuleKind
	chance  int // occurrences only, percent
	verb    *Word
	noun    *Word // nil means any noun
	comment string

	conditions []condition
	actions    []action
}

// Kind exposes the rule variant, chiefly for validation tooling.
func (r *Rule) Kind() RuleKind { return r.kind }

// Comment is the database's trailing annotation for this rule.
func (r *Rule) Comment() string { return r.comment }

// available reports whether every condition holds. Conditions are
// pure, so short-circuiting is safe.
func (r *Rule) available(g *Game) bool {
	for _, c := range r.conditions {
		if !c.eval(g) {
			return false
		}
	}
	return true
}

// matches reports whether a command rule handles the given input.
func (r *Rule) matches(verb, noun *Word) bool {
	if r.kind != RuleCommand || r.verb != verb {
		return false
	}
	return r.noun == nil || r.noun == noun
}

// execute runs the rule's actions in order. The context only matters
// to the delay opcode; cancelling it abandons the remaining actions.
func (r *Rule) execute(ctx context.Context, g *Game) error {
	for _, a := range r.actions {
		if err := a.run(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// compileRule partitions a decoded action into its variant and decodes
// conditions and actions into executable form. All decode failures are
// fatal: the database is malformed.
func (g *Game) compileRule(f *database.File, src database.Action) (*Rule, error) {
	r := &Rule{comment: src.Comment}

	switch {
	case src.Verb == 0 && src.Noun == 0:
		r.kind = RuleContinuation
	case src.Verb == 0:
		r.kind = RuleOccurrence
		r.chance = src.Noun
	default:
		r.kind = RuleCommand
		if src.Verb >= len(f.Verbs) {
			return nil, fmt.Errorf("verb index %d out of range", src.Verb)
		}
		r.verb = g.lookupVerb(f.Verbs[src.Verb])
		if r.verb == nil {
			return nil, fmt.Errorf("verb index %d has no vocabulary entry", src.Verb)
		}
		if src.Noun > 0 {
			if src.Noun >= len(f.Nouns) {
				return nil, fmt.Errorf("noun index %d out of range", src.Noun)
			}
			r.noun = g.lookupNoun(f.Nouns[src.Noun])
			if r.noun == nil {
				return nil, fmt.Errorf("noun index %d has no vocabulary entry", src.Noun)
			}
		}
	}

	// Opcode-0 condition slots carry arguments for the actions, in
	// order of appearance; everything else is a real condition.
	var args []int
	for _, c := range src.Conditions {
		if c.Opcode == 0 {
			args = append(args, c.Operand)
			continue
		}
		cond, err := g.compileCondition(c.Opcode, c.Operand)
		if err != nil {
			return nil, err
		}
		r.conditions = append(r.conditions, cond)
	}

	queue := &argQueue{values: args}
	for _, op := range src.Opcodes {
		a, err := g.compileAction(op, queue)
		if err != nil {
			return nil, err
		}
		if a != nil {
			r.actions = append(r.actions, *a)
		}
	}
	return r, nil
}

// argQueue hands out the rule-local argument carriers left to right,
// exactly once each.
type argQueue struct {
	values []int
	next   int
}

func (q *argQueue) take() (int, error) {
	if q.next >= len(q.values) {
		return 0, ErrMissingArgument
	}
	v := q.values[q.next]
	q.next++
	return v, nil
}

// Condition opcodes.
type condOp int

const (
	condItemCarried      condOp = 1
	condItemHere         condOp = 2
	condItemPresent      condOp = 3
	condPlayerIn         condOp = 4
	condItemNotHere      condOp = 5
	condItemNotCarried   condOp = 6
	condPlayerNotIn      condOp = 7
	condFlagSet          condOp = 8
	condFlagClear        condOp = 9
	condCarryingAny      condOp = 10
	condCarryingNone     condOp = 11
	condItemNotPresent   condOp = 12
	condItemInPlay       condOp = 13
	condItemNotInPlay    condOp = 14
	condCounterLE        condOp = 15
	condCounterGT        condOp = 16
	condItemAtStart      condOp = 17
	condItemMoved        condOp = 18
	condCounterEQ        condOp = 19
)

// condition is one decoded, pure predicate with its operand resolved.
type condition struct {
	op   condOp
	item *Item
	room *Room
	flag int
	n    int
}

func (c condition) eval(g *Game) bool {
	switch c.op {
	case condItemCarried:
		return c.item.Room == g.Inventory
	case condItemHere:
		return c.item.Room == g.PlayerRoom
	case condItemPresent:
		return c.item.Room == g.PlayerRoom || c.item.Room == g.Inventory
	case condPlayerIn:
		return g.PlayerRoom == c.room
	case condItemNotHere:
		return c.item.Room != g.PlayerRoom
	case condItemNotCarried:
		return c.item.Room != g.Inventory
	case condPlayerNotIn:
		return g.PlayerRoom != c.room
	case condFlagSet:
		return g.flags[c.flag]
	case condFlagClear:
		return !g.flags[c.flag]
	case condCarryingAny:
		return len(g.CarriedItems()) > 0
	case condCarryingNone:
		return len(g.CarriedItems()) == 0
	case condItemNotPresent:
		return c.item.Room != g.PlayerRoom && c.item.Room != g.Inventory
	case condItemInPlay:
		return c.item.Room != nil
	case condItemNotInPlay:
		return c.item.Room == nil
	case condCounterLE:
		return g.counter <= c.n
	case condCounterGT:
		return g.counter > c.n
	case condItemAtStart:
		return c.item.Room == c.item.StartingRoom
	case condItemMoved:
		return c.item.Room != c.item.StartingRoom
	case condCounterEQ:
		return g.counter == c.n
	}
	return false
}

// compileCondition resolves one condition opcode and operand. Unknown
// opcodes are fatal here, never at runtime.
func (g *Game) compileCondition(opcode, operand int) (condition, error) {
	c := condition{op: condOp(opcode)}
	switch c.op {
	case condItemCarried, condItemHere, condItemPresent, condItemNotHere,
		condItemNotCarried, condItemNotPresent, condItemInPlay,
		condItemNotInPlay, condItemAtStart, condItemMoved:
		if operand < 0 || operand >= len(g.Items) {
			return c, fmt.Errorf("condition op %d: item %d does not exist", opcode, operand)
		}
		c.item = g.Items[operand]
	case condPlayerIn, condPlayerNotIn:
		if operand < 0 || operand >= len(g.Rooms) {
			return c, fmt.Errorf("condition op %d: room %d does not exist", opcode, operand)
		}
		c.room = g.Rooms[operand]
	case condFlagSet, condFlagClear:
		if operand < 0 || operand >= FlagCount {
			return c, fmt.Errorf("condition op %d: flag %d out of range", opcode, operand)
		}
		c.flag = operand
	case condCounterLE, condCounterGT, condCounterEQ:
		c.n = operand
	case condCarryingAny, condCarryingNone:
		// no operand
	default:
		return c, fmt.Errorf("%w: %d", ErrUndefinedCondition, opcode)
	}
	return c, nil
}

// Action opcodes, after message ranges are peeled off.
type actOp int

const (
	actMessage actOp = iota
	actGetItem
	actDropItem
	actMovePlayer
	actRemoveItem
	actSetFlag
	actClearFlag
	actDie
	actMoveItem
	actGameOver
	actDescribeRoom
	actCheckScore
	actInventory
	actRefillLamp
	actClearScreen
	actSaveGame
	actSwapItems
	actContinue
	actForceGetItem
	actPutItemWith
	actDecCounter
	actPrintCounter
	actSetCounter
	actSwapSavedRoom
	actSwapCounter
	actAddCounter
	actSubCounter
	actSayNoun
	actSayNounLine
	actBlankLine
	actDelay
)

// action is one decoded effect with its operands baked in.
type action struct {
	op    actOp
	text  string
	item  *Item
	item2 *Item
	room  *Room
	flag  int
	n     int
}

func (a action) run(ctx context.Context, g *Game) error {
	switch a.op {
	case actMessage:
		g.OutputLine(a.text)
	case actGetItem:
		return g.GetItem(a.item, false)
	case actForceGetItem:
		return g.GetItem(a.item, true)
	case actDropItem:
		g.DropItem(a.item)
	case actMovePlayer:
		g.MovePlayer(a.room)
	case actRemoveItem:
		g.MoveItem(a.item, nil)
	case actSetFlag:
		g.flags[a.flag] = true
	case actClearFlag:
		g.flags[a.flag] = false
	case actDie:
		g.die()
	case actMoveItem:
		g.MoveItem(a.item, a.room)
	case actGameOver:
		g.GameOver = true
	case actDescribeRoom:
		g.needsRoomUpdate = true
	case actCheckScore:
		g.CheckScore()
	case actInventory:
		g.OutputLine(g.InventoryText())
	case actRefillLamp:
		g.refillLamp()
	case actClearScreen:
		// left to the presentation layer
	case actSaveGame:
		g.SaveRequested = true
	case actSwapItems:
		g.SwapItems(a.item, a.item2)
	case actContinue:
		g.continuing = true
	case actPutItemWith:
		g.MoveItem(a.item, a.item2.Room)
	case actDecCounter:
		g.counter--
	case actPrintCounter:
		g.OutputLine(fmt.Sprintf("%d", g.counter))
	case actSetCounter:
		g.counter = a.n
	case actSwapSavedRoom:
		g.PlayerRoom, g.savedRooms[a.n] = g.savedRooms[a.n], g.PlayerRoom
		g.wantsRoomUpdate = true
	case actSwapCounter:
		g.counter, g.altCounters[a.n] = g.altCounters[a.n], g.counter
	case actAddCounter:
		g.counter += a.n
	case actSubCounter:
		g.counter -= a.n
		if g.counter < -1 {
			g.counter = -1
		}
	case actSayNoun:
		g.Output(g.parsedNoun)
	case actSayNounLine:
		g.OutputLine(g.parsedNoun)
	case actBlankLine:
		g.OutputBlankLine()
	case actDelay:
		return g.delay(ctx)
	}
	return nil
}

// compileAction decodes one action opcode, pulling any operands it
// needs from the rule's argument-carrier queue. Opcode 0 is padding
// and yields no action; unknown opcodes are fatal.
func (g *Game) compileAction(opcode int, args *argQueue) (*action, error) {
	if opcode == 0 {
		return nil, nil
	}
	if opcode <= 51 {
		if opcode >= len(g.Messages) {
			return nil, fmt.Errorf("action op %d: message does not exist", opcode)
		}
		return &action{op: actMessage, text: g.Messages[opcode]}, nil
	}
	if opcode >= 102 {
		idx := opcode - 50
		if idx >= len(g.Messages) {
			return nil, fmt.Errorf("action op %d: message %d does not exist", opcode, idx)
		}
		return &action{op: actMessage, text: g.Messages[idx]}, nil
	}

	a := &action{}
	takeItem := func() error {
		v, err := args.take()
		if err != nil {
			return fmt.Errorf("action op %d: %w", opcode, err)
		}
		if v < 0 || v >= len(g.Items) {
			return fmt.Errorf("action op %d: item %d does not exist", opcode, v)
		}
		if a.item == nil {
			a.item = g.Items[v]
		} else {
			a.item2 = g.Items[v]
		}
		return nil
	}
	takeRoom := func() error {
		v, err := args.take()
		if err != nil {
			return fmt.Errorf("action op %d: %w", opcode, err)
		}
		if v < 0 || v >= len(g.Rooms) {
			return fmt.Errorf("action op %d: room %d does not exist", opcode, v)
		}
		a.room = g.Rooms[v]
		return nil
	}
	takeNum := func(limit int) error {
		v, err := args.take()
		if err != nil {
			return fmt.Errorf("action op %d: %w", opcode, err)
		}
		if limit > 0 && (v < 0 || v >= limit) {
			return fmt.Errorf("action op %d: operand %d out of range", opcode, v)
		}
		a.n = v
		return nil
	}

	switch opcode {
	case 52:
		a.op = actGetItem
		return a, takeItem()
	case 53:
		a.op = actDropItem
		return a, takeItem()
	case 54:
		a.op = actMovePlayer
		return a, takeRoom()
	case 55, 59:
		a.op = actRemoveItem
		return a, takeItem()
	case 56:
		a.op = actSetFlag
		a.flag = DarkFlag
	case 57:
		a.op = actClearFlag
		a.flag = DarkFlag
	case 58:
		a.op = actSetFlag
		if err := takeNum(FlagCount); err != nil {
			return nil, err
		}
		a.flag = a.n
	case 60:
		a.op = actClearFlag
		if err := takeNum(FlagCount); err != nil {
			return nil, err
		}
		a.flag = a.n
	case 61:
		a.op = actDie
	case 62:
		a.op = actMoveItem
		if err := takeItem(); err != nil {
			return nil, err
		}
		return a, takeRoom()
	case 63:
		a.op = actGameOver
	case 64, 76:
		a.op = actDescribeRoom
	case 65:
		a.op = actCheckScore
	case 66:
		a.op = actInventory
	case 67:
		a.op = actSetFlag
		a.flag = 0
	case 68:
		a.op = actClearFlag
		a.flag = 0
	case 69:
		a.op = actRefillLamp
	case 70:
		a.op = actClearScreen
	case 71:
		a.op = actSaveGame
	case 72:
		a.op = actSwapItems
		if err := takeItem(); err != nil {
			return nil, err
		}
		return a, takeItem()
	case 73:
		a.op = actContinue
	case 74:
		a.op = actForceGetItem
		return a, takeItem()
	case 75:
		a.op = actPutItemWith
		if err := takeItem(); err != nil {
			return nil, err
		}
		return a, takeItem()
	case 77:
		a.op = actDecCounter
	case 78:
		a.op = actPrintCounter
	case 79:
		a.op = actSetCounter
		return a, takeNum(0)
	case 80:
		a.op = actSwapSavedRoom
		a.n = 0
	case 81:
		a.op = actSwapCounter
		return a, takeNum(AltCounterCount)
	case 82:
		a.op = actAddCounter
		return a, takeNum(0)
	case 83:
		a.op = actSubCounter
		return a, takeNum(0)
	case 84:
		a.op = actSayNoun
	case 85:
		a.op = actSayNounLine
	case 86:
		a.op = actBlankLine
	case 87:
		a.op = actSwapSavedRoom
		return a, takeNum(SavedRoomCount)
	case 88:
		a.op = actDelay
	default:
		return nil, fmt.Errorf("%w: %d", ErrUndefinedAction, opcode)
	}
	return a, nil
}
