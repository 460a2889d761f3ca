// Package engine implements C6/C10's facade: the two operations the match
// API exposes (spec §6.3), GetProjection and Execute, plus the match-creation
// orchestration both repositories and the action executor sit behind. It
// generalizes the teacher's GameService (internal/service/game_service.go)
// — a thin, injected-repository facade in front of the entity and rules
// packages — to this domain's CreateMatch/GetProjection/Execute surface.
//
// Execute serializes all mutation on a single match behind a per-matchID
// mutex held for the whole call (spec §5): two concurrent Execute calls
// against the same match never interleave, while unrelated matches proceed
// independently.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tcg-match-engine/internal/action"
	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/catalog"
	"tcg-match-engine/internal/deck"
	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/filter"
	"tcg-match-engine/internal/logger"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/projection"
	"tcg-match-engine/internal/repository"
	"tcg-match-engine/internal/zone"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeckSizeParams are the deck-size rules CreateMatch validates decks
// against before starting a match. Spec §3 says a deck is "typically 60"
// cards; these are that default made concrete.
var DeckSizeParams = deck.BasicValidationParams{
	MinDeckSize:      60,
	MaxDeckSize:      60,
	MaxCopiesPerCard: 4,
}

// TournamentRules are the composition rules CreateMatch layers on top of
// DeckSizeParams (spec §4.3's "layered on top and pluggable" tournament
// rules), applied to every match regardless of whether it's bound to a
// TournamentID.
var TournamentRules = []deck.TournamentRule{
	deck.BasicPokemonRequiredRule{},
	deck.EnergyMinimumRule{MinEnergyCards: 1},
}

// validateDeck runs both the size/copy-limit check and TournamentRules
// against d, returning whether it passed and the combined violation list.
func (e *Engine) validateDeck(d *deck.Deck, lookup deck.CardLookup) (bool, []string) {
	basic := deck.ValidateBasic(d, DeckSizeParams)
	tournament := deck.ValidateTournament(d, lookup, TournamentRules)
	return basic.IsValid && tournament.IsValid, append(basic.Errors, tournament.Errors...)
}

// Engine wires the repositories, catalog, rules registry, and executor
// behind the match API's two operations.
type Engine struct {
	Matches  repository.MatchRepository
	Decks    repository.DeckRepository
	Cards    catalog.CardRepository
	Registry *filter.Registry
	Executor *action.Executor

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	busesMu sync.Mutex
	buses   map[string]*events.Bus
}

// New constructs an Engine. registry and ex may be nil, in which case
// New builds a filter.DefaultRegistry() and an *action.Executor over cards.
func New(matches repository.MatchRepository, decks repository.DeckRepository, cards catalog.CardRepository, registry *filter.Registry, ex *action.Executor) *Engine {
	if registry == nil {
		registry = filter.DefaultRegistry()
	}
	if ex == nil {
		ex = &action.Executor{Cards: cards, Registry: registry}
	}
	return &Engine{
		Matches:  matches,
		Decks:    decks,
		Cards:    cards,
		Registry: registry,
		Executor: ex,
		locks:    make(map[string]*sync.Mutex),
		buses:    make(map[string]*events.Bus),
	}
}

// lockFor returns the mutex guarding matchID, creating it on first use.
func (e *Engine) lockFor(matchID string) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	l, ok := e.locks[matchID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[matchID] = l
	}
	return l
}

// busFor returns matchID's event bus, creating and wiring it (triggered
// abilities, repository-save notifications) on first use.
func (e *Engine) busFor(matchID string) *events.Bus {
	e.busesMu.Lock()
	defer e.busesMu.Unlock()
	b, ok := e.buses[matchID]
	if !ok {
		b = events.NewBus(matchID)
		registerTriggeredAbilities(b, e.Cards)
		e.buses[matchID] = b
	}
	return b
}

// CreateMatch assembles a match from two joined decks and starts it: spec
// §4.5's CREATED → WAITING_FOR_PLAYERS → DECK_VALIDATION → PRE_GAME_SETUP →
// DRAWING_CARDS walk, grounded on internal/action's startedMatch test helper.
// Both decks are validated with DeckSizeParams; either deck failing moves the
// match straight to CANCELLED and CreateMatch returns the (non-nil, already
// terminal) match alongside a descriptive error.
func (e *Engine) CreateMatch(ctx context.Context, player1ID, player2ID, deck1ID, deck2ID string, seed int64, now time.Time) (*match.Match, error) {
	d1, err := e.Decks.FindByID(ctx, deck1ID)
	if err != nil {
		return nil, fmt.Errorf("load deck %s: %w", deck1ID, err)
	}
	d2, err := e.Decks.FindByID(ctx, deck2ID)
	if err != nil {
		return nil, fmt.Errorf("load deck %s: %w", deck2ID, err)
	}

	m := match.NewMatch(uuid.NewString(), now)
	if err := m.Join(player1ID, deck1ID, now); err != nil {
		return nil, err
	}
	if err := m.Join(player2ID, deck2ID, now); err != nil {
		return nil, err
	}

	lookup := catalogLookup{cards: e.Cards}
	valid1, errs1 := e.validateDeck(d1, lookup)
	valid2, errs2 := e.validateDeck(d2, lookup)
	reason := ""
	if !valid1 {
		reason = fmt.Sprintf("player1 deck invalid: %v", errs1)
	} else if !valid2 {
		reason = fmt.Sprintf("player2 deck invalid: %v", errs2)
	}

	if err := m.ValidateDecks(valid1, valid2, reason, now); err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return m, fmt.Errorf("match %s: cancelled during deck validation: %s", m.ID, reason)
	}

	if err := m.Start(seed, now); err != nil {
		return nil, err
	}

	e.seedDeck(m.GameState.Player1State, d1, m.RNG())
	e.seedDeck(m.GameState.Player2State, d2, m.RNG())

	if err := e.Matches.Save(ctx, m); err != nil {
		return nil, err
	}
	logger.Get().Info("created match", zap.String("match_id", m.ID), zap.String("player1", player1ID), zap.String("player2", player2ID))
	return m, nil
}

// seedDeck populates ps.Deck with one zone.CardInstance per deck entry copy,
// shuffled with rng (spec §6.4: all randomness flows through the match PRNG).
// Each instance's maxHP comes from the catalog card definition when known;
// entries referencing a card the catalog hasn't loaded still seed (maxHP 0)
// rather than fail match creation outright.
func (e *Engine) seedDeck(ps *zone.PlayerGameState, d *deck.Deck, rng *rand.Rand) {
	entries := d.Entries()
	instances := make([]*zone.CardInstance, 0, d.GetTotalCardCount())
	for _, entry := range entries {
		hp := 0
		if c, err := e.Cards.GetByID(entry.CardID); err == nil {
			hp = c.HP
		}
		for i := 0; i < entry.Qty; i++ {
			instances = append(instances, zone.NewCardInstance(uuid.NewString(), entry.CardID, zone.PositionDeck, hp))
		}
	}
	rng.Shuffle(len(instances), func(i, j int) {
		instances[i], instances[j] = instances[j], instances[i]
	})
	ps.Deck = instances
}

// catalogLookup adapts catalog.CardRepository to deck.CardLookup, for the
// tournament ruleset validators a tournament-scoped call site can layer on
// top of CreateMatch via deck.ValidateTournament.
type catalogLookup struct {
	cards catalog.CardRepository
}

func (l catalogLookup) IsBasicPokemon(cardID string) bool {
	c, err := l.cards.GetByID(cardID)
	if err != nil {
		return false
	}
	return c.IsBasic()
}

func (l catalogLookup) IsBanned(cardID string) bool {
	return false
}

func (l catalogLookup) IsEnergy(cardID string) bool {
	c, err := l.cards.GetByID(cardID)
	if err != nil {
		return false
	}
	return c.CardType == card.TypeEnergy
}

// GetProjection returns viewerID's personalized view of matchID (spec §4.9).
func (e *Engine) GetProjection(ctx context.Context, matchID, viewerID string) (projection.View, error) {
	m, err := e.Matches.FindByID(ctx, matchID)
	if err != nil {
		return projection.View{}, err
	}
	return projection.Project(m, viewerID, e.Registry), nil
}

// Execute submits one action against matchID, holding that match's mutex for
// the duration (spec §5), then persists the result.
func (e *Engine) Execute(ctx context.Context, matchID, playerID string, actionType match.ActionType, actionData map[string]any) (*zone.ActionRecord, error) {
	lock := e.lockFor(matchID)
	lock.Lock()
	defer lock.Unlock()

	m, err := e.Matches.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	req := decodeRequest(playerID, actionType, actionData)
	bus := e.busFor(matchID)

	activeMatches.Store(matchID, m)
	defer activeMatches.Delete(matchID)

	rec, err := e.Executor.Execute(m, bus, req, time.Now())
	if err != nil {
		return nil, err
	}

	if err := e.Matches.Save(ctx, m); err != nil {
		return nil, err
	}
	return rec, nil
}

// decodeRequest maps a transport-agnostic actionData payload onto an
// action.Request. Unrecognized or missing keys simply leave the
// corresponding field zero-valued; the executor's own handlers reject a
// request that's missing data their action type requires.
func decodeRequest(playerID string, actionType match.ActionType, data map[string]any) action.Request {
	req := action.Request{PlayerID: playerID, Type: actionType, BenchSlot: -1}
	if data == nil {
		return req
	}
	if v, ok := data["instanceId"].(string); ok {
		req.InstanceID = v
	}
	if v, ok := data["targetInstanceId"].(string); ok {
		req.TargetInstanceID = v
	}
	if v, ok := data["benchSlot"].(int); ok {
		req.BenchSlot = v
	} else if v, ok := data["benchSlot"].(float64); ok {
		req.BenchSlot = int(v)
	}
	if v, ok := data["attackName"].(string); ok {
		req.AttackName = v
	}
	if v, ok := data["abilityName"].(string); ok {
		req.AbilityName = v
	}
	if v, ok := data["choice"].(string); ok {
		req.Choice = v
	}
	if v, ok := data["count"].(int); ok {
		req.Count = v
	} else if v, ok := data["count"].(float64); ok {
		req.Count = int(v)
	}
	if v, ok := data["prizeInstanceId"].(string); ok {
		req.PrizeInstanceID = v
	}
	return req
}
