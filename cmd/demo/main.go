// Command demo drives a two-player match against an in-process Engine from
// an interactive terminal, adapted from the teacher's cmd/cli: the same
// read-line command loop and lipgloss status display, but talking to
// internal/engine.Engine directly instead of a WebSocket/HTTP server — there
// is no server process in this demo, only the engine and its repositories.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/catalog"
	"tcg-match-engine/internal/deck"
	"tcg-match-engine/internal/engine"
	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/logger"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/repository"
)

const (
	playerOne = "alice"
	playerTwo = "bob"
)

func main() {
	_ = logger.Init(nil)

	cards := newFixtureCards()
	seedCatalog(cards)

	bus := events.NewBus("demo")
	matches := repository.NewMemoryMatchRepository(bus)
	decks := repository.NewMemoryDeckRepository(bus)
	e := engine.New(matches, decks, cards, nil, nil)

	ctx := context.Background()
	if err := seedDecks(ctx, decks); err != nil {
		fmt.Fprintf(os.Stderr, "seed decks: %v\n", err)
		os.Exit(1)
	}

	m, err := e.CreateMatch(ctx, playerOne, playerTwo, "demo-deck-1", "demo-deck-2", time.Now().UnixNano(), time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "create match: %v\n", err)
		os.Exit(1)
	}

	d := &demo{engine: e, matchID: m.ID, viewer: playerOne, ui: NewUI(playerOne)}
	d.refreshDisplay(ctx)
	d.commandLoop(ctx)
}

// demo holds the interactive session's mutable state: which match is being
// driven and which player's projection.View is currently displayed.
type demo struct {
	engine  *engine.Engine
	matchID string
	viewer  string
	ui      *UI
}

func (d *demo) commandLoop(ctx context.Context) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Match Engine Demo — type 'help' for commands, 'quit' to exit")

	for {
		fmt.Print(d.ui.RenderPrompt())
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		command := strings.TrimSpace(line)
		if command == "" {
			continue
		}
		if d.processCommand(ctx, command) {
			return
		}
	}
}

func (d *demo) processCommand(ctx context.Context, command string) bool {
	parts := strings.Fields(command)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "quit", "exit", "q":
		fmt.Println("bye")
		return true

	case "help", "h":
		d.displayResult(ctx, cmd, helpText())

	case "clear", "cls":
		d.ui.ClearScreen()

	case "as":
		if len(args) != 1 || (args[0] != playerOne && args[0] != playerTwo) {
			d.displayResult(ctx, cmd, fmt.Sprintf("usage: as <%s|%s>", playerOne, playerTwo))
			return false
		}
		d.viewer = args[0]
		d.ui = NewUI(d.viewer)
		d.refreshDisplay(ctx)

	case "do":
		d.doAction(ctx, args)

	default:
		d.displayResult(ctx, cmd, fmt.Sprintf("unknown command: %s (type 'help')", cmd))
	}

	return false
}

// doAction submits `do <ACTION_TYPE> [key=value ...]` as the current viewer.
func (d *demo) doAction(ctx context.Context, args []string) {
	if len(args) == 0 {
		d.displayResult(ctx, "do", "usage: do <ACTION_TYPE> [key=value ...]")
		return
	}
	actionType := match.ActionType(strings.ToUpper(args[0]))
	data := map[string]any{}
	lastKey := ""
	for _, kv := range args[1:] {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			// A bare word continues the previous value ("attackName=Thunder Shock").
			if s, ok := data[lastKey].(string); ok {
				data[lastKey] = s + " " + kv
			}
			continue
		}
		lastKey = parts[0]
		if n, err := strconv.Atoi(parts[1]); err == nil {
			data[parts[0]] = n
		} else {
			data[parts[0]] = parts[1]
		}
	}

	rec, err := d.engine.Execute(ctx, d.matchID, d.viewer, actionType, data)
	if err != nil {
		d.displayResult(ctx, string(actionType), d.ui.RenderMessage("error", err.Error()))
		return
	}
	d.displayResult(ctx, string(actionType), d.ui.RenderMessage("success", fmt.Sprintf("applied %s", rec.ActionType)))
}

func (d *demo) displayResult(ctx context.Context, command, result string) {
	d.ui.SetLastCommand(command, result)
	d.refreshDisplay(ctx)
}

func (d *demo) refreshDisplay(ctx context.Context) {
	view, err := d.engine.GetProjection(ctx, d.matchID, d.viewer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "get projection: %v\n", err)
		return
	}
	d.ui.UpdateView(&view)
	d.ui.ClearScreen()
	fmt.Println(d.ui.RenderFullDisplay())
	fmt.Println()
}

func helpText() string {
	return `Commands:
  help, h              show this help
  as <alice|bob>        switch the displayed viewer (doesn't change whose turn it is)
  do <TYPE> [k=v ...]   submit an action as the current viewer, e.g.:
                          do DRAW_CARD
                          do PLAY_POKEMON instanceId=<id> benchSlot=-1
                          do ATTACH_ENERGY instanceId=<id> targetInstanceId=<id>
                          do ATTACK attackName=Thunder Shock
                          do END_TURN
  clear, cls            clear the screen
  quit, exit, q         exit the demo`
}

// fixtureCards is a minimal catalog.CardRepository backed by a plain map,
// keyed directly by the literal cardIDs the demo decks reference — mirroring
// internal/action and internal/engine's test-only fakeCards so the fixture
// cards don't have to round-trip through catalog.ParseCard's derived-cardId
// JSON shape (LoadSet is for the catalogwatch/import path, not this demo).
type fixtureCards struct {
	byID map[string]*card.Card
}

func newFixtureCards() *fixtureCards { return &fixtureCards{byID: make(map[string]*card.Card)} }

func (f *fixtureCards) put(c *card.Card) { f.byID[c.CardID] = c }

func (f *fixtureCards) LoadSet(context.Context, catalog.SetMetadata, []catalog.JSONCard) (catalog.LoadSetResult, error) {
	return catalog.LoadSetResult{}, nil
}
func (f *fixtureCards) IsSetLoaded(string, string, string) bool { return false }
func (f *fixtureCards) Clear()                                  {}
func (f *fixtureCards) ClearSet(string, string, string)         {}
func (f *fixtureCards) GetByID(cardID string) (*card.Card, error) {
	c, ok := f.byID[cardID]
	if !ok {
		return nil, fmt.Errorf("card not found: %s", cardID)
	}
	cp := *c
	return &cp, nil
}
func (f *fixtureCards) GetBySet(string, string, string) []card.Card { return nil }

// seedCatalog loads a small fixed set of cards the demo decks reference,
// grounded on internal/action's executor_test fixtures.
func seedCatalog(cards *fixtureCards) {
	pikachu, _ := card.NewPokemon("pikachu", "Pikachu", "base1", "25", "common", card.EnergyLightning, card.StageBasic, 60, 1)
	_ = pikachu.AddAttack(card.Attack{Name: "Thunder Shock", EnergyCost: []card.EnergyType{card.EnergyLightning}, Damage: "20"})
	cards.put(pikachu)

	charmander, _ := card.NewPokemon("charmander", "Charmander", "base1", "46", "common", card.EnergyFire, card.StageBasic, 60, 1)
	_ = charmander.AddAttack(card.Attack{Name: "Ember", EnergyCost: []card.EnergyType{card.EnergyFire}, Damage: "30"})
	cards.put(charmander)

	squirtle, _ := card.NewPokemon("squirtle", "Squirtle", "base1", "63", "common", card.EnergyWater, card.StageBasic, 40, 1)
	_ = squirtle.AddAttack(card.Attack{Name: "Bubble", EnergyCost: []card.EnergyType{card.EnergyWater}, Damage: "10"})
	cards.put(squirtle)

	cards.put(card.NewEnergy("energy-lightning", "Lightning Energy", "base1", "98", "common", card.EnergyLightning, false))
	cards.put(card.NewEnergy("energy-fire", "Fire Energy", "base1", "99", "common", card.EnergyFire, false))
	cards.put(card.NewEnergy("energy-colorless", "Double Colorless Energy", "base1", "96", "uncommon", card.EnergyColorless, true))
}

// seedDecks saves two 60-card decks: 4 copies each of one basic Pokemon, its
// typed Energy and energy-colorless, plus 48 filler-N cards (4 per id) that
// the demo catalog does not define.
func seedDecks(ctx context.Context, decks repository.DeckRepository) error {
	now := time.Now()

	d1 := deck.NewDeck("demo-deck-1", "Pikachu Deck", playerOne, now)
	if err := buildDeck(d1, "pikachu", "energy-lightning"); err != nil {
		return err
	}
	if err := decks.Save(ctx, d1); err != nil {
		return err
	}

	d2 := deck.NewDeck("demo-deck-2", "Charmander Deck", playerTwo, now)
	if err := buildDeck(d2, "charmander", "energy-fire"); err != nil {
		return err
	}
	return decks.Save(ctx, d2)
}

func buildDeck(d *deck.Deck, pokemonCardID, energyCardID string) error {
	if err := d.AddCard(pokemonCardID, "base1", 4); err != nil {
		return err
	}
	if err := d.AddCard(energyCardID, "base1", 4); err != nil {
		return err
	}
	if err := d.AddCard("energy-colorless", "base1", 4); err != nil {
		return err
	}
	remaining := 48
	for i := 0; remaining > 0; i++ {
		qty := 4
		if remaining < 4 {
			qty = remaining
		}
		if err := d.AddCard(fmt.Sprintf("filler-%d", i), "base1", qty); err != nil {
			return err
		}
		remaining -= qty
	}
	return nil
}
