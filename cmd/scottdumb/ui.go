package main

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/danieljohnson2/scottdumb/internal/storage"
	"github.com/danieljohnson2/scottdumb/pkg/game"
)

const placeholderText = "What should I do?"

var (
	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			PaddingBottom(1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	activeWordStyle = lipgloss.NewStyle().
			Underline(true)
)

// UI is the BubbleTea model that plays one loaded adventure.
// https://github.com/charmbracelet/bubbletea
type UI struct {
	game    *game.Game
	store   storage.Storage
	session uuid.UUID

	viewport viewport.Model
	textarea textarea.Model
	ready    bool
	width    int
	height   int

	roomText   string
	transcript []string
	status     string
}

func NewUI(g *game.Game, store storage.Storage, session uuid.UUID) *UI {
	ta := textarea.New()
	ta.Placeholder = placeholderText
	ta.Focus()
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	ui := &UI{
		game:     g,
		store:    store,
		session:  session,
		textarea: ta,
	}
	ui.beforeTurn()
	return ui
}

func (ui *UI) Init() tea.Cmd {
	return textarea.Blink
}

// beforeTurn runs the pre-input phase and refreshes the room panel,
// mirroring the per-turn protocol the engine expects of its caller.
// Output already produced by the occurrences is kept even when one of
// them fails partway.
func (ui *UI) beforeTurn() {
	var err error
	if !ui.game.GameOver {
		err = ui.game.PerformOccurrences(context.Background())
	}
	ui.appendOutput()
	if err != nil {
		if game.IsPlayerError(err) {
			ui.transcript = append(ui.transcript, err.Error())
			ui.syncViewport()
		} else {
			ui.status = errorStyle.Render(err.Error())
		}
	}
	ui.updateRoom()
}

func (ui *UI) updateRoom() {
	if !ui.game.NeedsRoomUpdate() && ui.roomText != "" {
		return
	}
	ui.roomText = ui.renderTokens(ui.game.LookTokens())
	ui.game.ClearRoomUpdate()
}

// appendOutput drains the engine's token stream into the transcript.
func (ui *UI) appendOutput() {
	tokens := ui.game.ExtractOutput()
	if len(tokens) == 0 {
		return
	}
	if text := ui.renderTokens(tokens); text != "" {
		ui.transcript = append(ui.transcript, text)
		ui.syncViewport()
	}
}

// renderTokens joins a token stream into display text, underlining
// words that currently have affordances.
func (ui *UI) renderTokens(tokens []game.Token) string {
	var b strings.Builder
	wordIndex := 0
	for _, tok := range tokens {
		if tok.IsNewline() {
			b.WriteString("\n")
			wordIndex = 0
			continue
		}
		if wordIndex > 0 {
			b.WriteString(" ")
		}
		if tok.Word != nil && !ui.game.IsPlain(tok.Word) {
			b.WriteString(activeWordStyle.Render(tok.Text))
		} else {
			b.WriteString(tok.Text)
		}
		wordIndex++
	}
	return strings.Trim(b.String(), "\n")
}

func (ui *UI) performCommand(input string) {
	ui.status = ""
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	ui.transcript = append(ui.transcript, promptStyle.Render("> "+input))

	switch strings.ToUpper(input) {
	case "SAVE":
		ui.saveGame()
		ui.beforeTurn()
		return
	case "LOAD":
		ui.loadGame()
		ui.beforeTurn()
		return
	case "QUIT":
		ui.game.GameOver = true
		return
	}

	verb, noun, err := ui.game.ParseCommand(input)
	if err == nil {
		err = ui.game.PerformCommand(context.Background(), verb, noun)
	}
	ui.appendOutput()
	if err != nil {
		if game.IsPlayerError(err) {
			ui.transcript = append(ui.transcript, err.Error())
			ui.syncViewport()
		} else {
			ui.status = errorStyle.Render(err.Error())
		}
	}
	if ui.game.SaveRequested {
		ui.game.SaveRequested = false
		ui.saveGame()
	}
	ui.beforeTurn()
}

func (ui *UI) saveGame() {
	var b strings.Builder
	if err := ui.game.WriteState(&b); err != nil {
		ui.status = errorStyle.Render("Save failed: " + err.Error())
		return
	}
	if err := ui.store.SaveState(context.Background(), ui.session, b.String()); err != nil {
		ui.status = errorStyle.Render("Save failed: " + err.Error())
		return
	}
	ui.transcript = append(ui.transcript, "Game saved.")
	ui.syncViewport()
}

func (ui *UI) loadGame() {
	snapshot, err := ui.store.LoadState(context.Background(), ui.session)
	if err != nil {
		ui.status = errorStyle.Render("Load failed: " + err.Error())
		return
	}
	if snapshot == "" {
		ui.transcript = append(ui.transcript, "No saved game to load.")
		ui.syncViewport()
		return
	}
	if err := ui.game.ReadState(strings.NewReader(snapshot)); err != nil {
		ui.status = errorStyle.Render("Load failed: " + err.Error())
		return
	}
	ui.transcript = append(ui.transcript, "Game loaded.")
	ui.roomText = ""
	ui.syncViewport()
}

func (ui *UI) syncViewport() {
	if !ui.ready {
		return
	}
	wrapped := wordwrap.String(strings.Join(ui.transcript, "\n"), ui.viewport.Width)
	ui.viewport.SetContent(wrapped)
	ui.viewport.GotoBottom()
}

func (ui *UI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var taCmd, vpCmd tea.Cmd
	ui.textarea, taCmd = ui.textarea.Update(msg)
	ui.viewport, vpCmd = ui.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
		roomHeight := lipgloss.Height(ui.roomView())
		vpHeight := msg.Height - roomHeight - 4
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !ui.ready {
			ui.viewport = viewport.New(msg.Width, vpHeight)
			ui.ready = true
		} else {
			ui.viewport.Width = msg.Width
			ui.viewport.Height = vpHeight
		}
		ui.textarea.SetWidth(msg.Width - 4)
		ui.syncViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return ui, tea.Quit
		case tea.KeyCtrlY:
			// Copy the plain transcript for bug reports.
			_ = clipboard.WriteAll(strings.Join(ui.transcript, "\n"))
			ui.status = statusStyle.Render("Transcript copied.")
		case tea.KeyEnter:
			input := ui.textarea.Value()
			ui.textarea.Reset()
			ui.performCommand(input)
		}
	}

	return ui, tea.Batch(taCmd, vpCmd)
}

func (ui *UI) roomView() string {
	text := ui.roomText
	if ui.game.GameOver {
		text += "\n\nThe game is over."
	}
	return roomStyle.Render(wordwrap.String(text, max(ui.width-2, 20)))
}

func (ui *UI) View() string {
	if !ui.ready {
		return "Loading..."
	}
	parts := []string{
		ui.roomView(),
		ui.viewport.View(),
		ui.textarea.View(),
	}
	if ui.status != "" {
		parts = append(parts, ui.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
