package game

import "context"

// chainState tracks command dispatch through its phases, making the
// halt conditions explicit.
type chainState int

const (
	chainScanning chainState = iota
	chainContinuing
	chainDone
)

// PerformOccurrences runs the pre-input phase of a turn: light decay,
// then every occurrence rule in declaration order. Each occurrence
// whose conditions hold rolls its own chance; every qualifying one
// runs, with no early termination across occurrences.
func (g *Game) PerformOccurrences(ctx context.Context) error {
	if g.GameOver {
		return nil
	}
	g.decayLight()

	for i, rule := range g.logics {
		if rule.kind != RuleOccurrence {
			continue
		}
		if !rule.available(g) {
			continue
		}
		if g.rollPercent() > rule.chance {
			continue
		}
		if err := g.executeChain(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// rollPercent rolls uniformly in 1..100, so a chance of 0 never fires
// and a chance of 100 always does.
func (g *Game) rollPercent() int {
	return g.rng.Intn(100) + 1
}

// PerformCommand executes one parsed player command: scripted command
// rules first, in declaration order, then the builtin fallbacks.
// PlayerError returns are recoverable and leave the game playable.
func (g *Game) PerformCommand(ctx context.Context, verb, noun *Word) error {
	if g.GameOver {
		return playerErrorf("The game is over.")
	}

	state := chainScanning
	for i, rule := range g.logics {
		if state != chainScanning {
			break
		}
		if !rule.matches(verb, noun) || !rule.available(g) {
			continue
		}
		state = chainDone
		if err := g.executeChain(ctx, i); err != nil {
			return err
		}
	}

	if state == chainDone {
		return nil
	}
	return g.performBuiltin(verb, noun)
}

// executeChain runs the rule at index i, then services any
// continuation chain it opted into: each following rule in the list
// runs if it is an available continuation, and the first rule that is
// not a continuation halts the chain.
func (g *Game) executeChain(ctx context.Context, i int) error {
	g.continuing = false
	if err := g.logics[i].execute(ctx, g); err != nil {
		return err
	}
	if !g.continuing {
		return nil
	}
	g.continuing = false

	state := chainContinuing
	for j := i + 1; j < len(g.logics) && state == chainContinuing; j++ {
		next := g.logics[j]
		if next.kind != RuleContinuation {
			state = chainDone
			continue
		}
		if !next.available(g) {
			continue
		}
		if err := next.execute(ctx, g); err != nil {
			return err
		}
	}
	g.continuing = false
	return nil
}

// performBuiltin handles the verbs the bytecode does not: movement,
// get, drop, inventory and score.
func (g *Game) performBuiltin(verb, noun *Word) error {
	switch {
	case verb == nil || verb == g.goVerb:
		return g.builtinGo(verb, noun)
	case verb == g.getVerb:
		return g.builtinGet(noun)
	case verb == g.dropVerb:
		return g.builtinDrop(noun)
	case verb == g.inventoryVerb:
		g.OutputLine(g.InventoryText())
		return nil
	case verb == g.scoreVerb:
		g.CheckScore()
		return nil
	}
	return playerErrorf("I don't understand your command.")
}

func (g *Game) builtinGo(verb, noun *Word) error {
	if noun == nil {
		return playerErrorf("Give me a direction too.")
	}
	d, ok := g.directions[noun]
	if !ok {
		if verb == nil {
			return playerErrorf("I don't understand your command.")
		}
		return playerErrorf("I can't go there.")
	}
	dest := g.PlayerRoom.Exit(d)
	if dest == nil {
		return playerErrorf("I can't go there.")
	}
	g.MovePlayer(dest)
	return nil
}

// builtinGet prefers an item present in the room or inventory over a
// same-named item elsewhere; remaining ties resolve by declaration
// order.
func (g *Game) builtinGet(noun *Word) error {
	if noun == nil {
		return playerErrorf("Get what?")
	}
	var candidate *Item
	for _, it := range g.Items {
		if it.CarryWord != noun {
			continue
		}
		if it.Room == g.PlayerRoom || it.Room == g.Inventory {
			candidate = it
			break
		}
		if candidate == nil {
			candidate = it
		}
	}
	switch {
	case candidate == nil:
		return playerErrorf("I can't pick that up.")
	case candidate.Room == g.Inventory:
		return playerErrorf("I'm already carrying it.")
	case candidate.Room != g.PlayerRoom:
		return playerErrorf("I don't see it here.")
	}
	if err := g.GetItem(candidate, false); err != nil {
		return err
	}
	g.OutputLine("O.K.")
	return nil
}

func (g *Game) builtinDrop(noun *Word) error {
	if noun == nil {
		return playerErrorf("Drop what?")
	}
	for _, it := range g.Items {
		if it.CarryWord == noun && it.Room == g.Inventory {
			g.DropItem(it)
			g.OutputLine("O.K.")
			return nil
		}
	}
	return playerErrorf("I'm not carrying it.")
}
