// Command validate loads an adventure database, builds the world and
// compiles every rule, reporting anything that would make the game
// unplayable. Intended for CI and for checking converted databases.
package main

import (
	"fmt"
	"os"

	"github.com/danieljohnson2/scottdumb/internal/config"
	"github.com/danieljohnson2/scottdumb/internal/logger"
	"github.com/danieljohnson2/scottdumb/pkg/database"
	"github.com/danieljohnson2/scottdumb/pkg/game"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: validate <adventure file> [...]")
		os.Exit(1)
	}

	failed := false
	for _, path := range os.Args[1:] {
		if err := validate(path); err != nil {
			log.Error("Validation failed", "file", path, "error", err)
			failed = true
			continue
		}
		log.Info("Validation passed", "file", path)
	}
	if failed {
		os.Exit(1)
	}
}

func validate(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := database.Decode(f)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	g, err := game.New(db)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	fmt.Printf("%s: %d rooms, %d items, %d messages, %d rules, %d treasures\n",
		path, len(g.Rooms), len(g.Items), len(g.Messages), len(db.Actions), g.TreasureCount)
	return nil
}
