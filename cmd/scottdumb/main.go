package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/danieljohnson2/scottdumb/internal/config"
	"github.com/danieljohnson2/scottdumb/internal/logger"
	"github.com/danieljohnson2/scottdumb/internal/storage"
	"github.com/danieljohnson2/scottdumb/pkg/database"
	"github.com/danieljohnson2/scottdumb/pkg/game"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	gameFile := cfg.GameFile
	if len(os.Args) > 1 {
		gameFile = os.Args[1]
	}
	if gameFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: scottdumb <adventure file>")
		os.Exit(1)
	}

	f, err := os.Open(gameFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open adventure: %v\n", err)
		os.Exit(1)
	}
	db, err := database.Decode(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not decode adventure: %v\n", err)
		os.Exit(1)
	}

	g, err := game.New(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Adventure database is invalid: %v\n", err)
		os.Exit(1)
	}

	var store storage.Storage
	if cfg.RedisURL != "" {
		store, err = storage.NewRedisStorage(cfg.RedisURL, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not connect storage: %v\n", err)
			os.Exit(1)
		}
	} else {
		store = storage.NewFileStorage(cfg.SaveDir, log)
	}
	defer store.Close()

	// One save slot per adventure file, stable across runs.
	session := uuid.NewSHA1(uuid.NameSpaceURL, []byte("scottdumb:"+gameFile))

	p := tea.NewProgram(NewUI(g, store, session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
