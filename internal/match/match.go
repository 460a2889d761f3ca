// Package match implements C5: the match entity, its lifecycle state
// machine (spec §4.5), the coin-flip sub-state-machine, and win-condition
// checks (spec §8). It generalizes the teacher's GamePhase string-const
// enum and the action/validator package's guard style to this domain's
// state table.
package match

import (
	"fmt"
	"math/rand"
	"time"

	"tcg-match-engine/internal/zone"
)

// Match is one in-progress or completed game between two players.
type Match struct {
	ID         string
	TournamentID *string

	Player1ID     string
	Player2ID     string
	Player1DeckID string
	Player2DeckID string

	State        State
	FirstPlayerID string

	Player1Flags SetupFlags
	Player2Flags SetupFlags

	GameState *zone.GameState

	// Seed is recorded at Start and never changes, so a replay from
	// actionHistory plus Seed reproduces every random outcome (spec §6.4).
	Seed          int64
	flipCounter   int
	rng           *rand.Rand
	coinFlipOwner string

	WinnerID     *string
	WinCondition *WinCondition
	CancelReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMatch constructs a match in CREATED state, awaiting player1 to join.
func NewMatch(id string, now time.Time) *Match {
	return &Match{
		ID:        id,
		State:     StateCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Join attaches a player and their deck to the match. The first call moves
// CREATED → WAITING_FOR_PLAYERS; the second moves WAITING_FOR_PLAYERS →
// DECK_VALIDATION, per spec §4.5's "[player2 joined & decks present]" guard.
func (m *Match) Join(playerID, deckID string, now time.Time) error {
	switch m.State {
	case StateCreated:
		m.Player1ID = playerID
		m.Player1DeckID = deckID
		m.State = StateWaitingForPlayers
	case StateWaitingForPlayers:
		if m.Player1ID == "" {
			m.Player1ID = playerID
			m.Player1DeckID = deckID
			break
		}
		if playerID == m.Player1ID {
			return fmt.Errorf("match %s: player %s already joined", m.ID, playerID)
		}
		m.Player2ID = playerID
		m.Player2DeckID = deckID
		m.State = StateDeckValidation
	default:
		return fmt.Errorf("match %s: cannot join in state %s", m.ID, m.State)
	}
	m.UpdatedAt = now
	return nil
}

// ValidateDecks resolves DECK_VALIDATION → PRE_GAME_SETUP when both decks
// are valid, or → CANCELLED(reason) otherwise.
func (m *Match) ValidateDecks(player1Valid, player2Valid bool, invalidReason string, now time.Time) error {
	if m.State != StateDeckValidation {
		return fmt.Errorf("match %s: cannot validate decks in state %s", m.ID, m.State)
	}
	if player1Valid && player2Valid {
		m.State = StatePreGameSetup
	} else {
		m.State = StateCancelled
		reason := invalidReason
		m.CancelReason = &reason
	}
	m.UpdatedAt = now
	return nil
}

// Cancel lets a participant cancel a match still in WAITING_FOR_PLAYERS
// (spec §4.5/§5); the caller is responsible for deleting the stored record.
func (m *Match) Cancel(reason string, now time.Time) error {
	if m.State != StateWaitingForPlayers {
		return fmt.Errorf("match %s: cancel only allowed in WAITING_FOR_PLAYERS, currently %s", m.ID, m.State)
	}
	m.State = StateCancelled
	m.CancelReason = &reason
	m.UpdatedAt = now
	return nil
}

// Start moves PRE_GAME_SETUP → DRAWING_CARDS: it seeds the match PRNG,
// assembles the initial GameState, and resolves the FIRST_PLAYER coin flip
// immediately (spec §4.5's FIRST_PLAYER_SELECTION state has no client-
// submitted GENERATE_COIN_FLIP action — the filter registry never offers
// one there — so the flip is an engine-internal decision, not a
// player-visible coin-flip sub-state-machine run). FirstPlayerID sits ready
// for enterPlayerTurn once SELECT_BENCH_POKEMON's gate clears.
func (m *Match) Start(seed int64, now time.Time) error {
	if m.State != StatePreGameSetup {
		return fmt.Errorf("match %s: cannot start in state %s", m.ID, m.State)
	}
	m.Seed = seed
	m.rng = rand.New(rand.NewSource(seed))
	m.GameState = zone.NewGameState(m.Player1ID, m.Player2ID)
	m.State = StateDrawingCards
	if m.rng.Intn(2) == 0 {
		m.FirstPlayerID = m.Player1ID
	} else {
		m.FirstPlayerID = m.Player2ID
	}
	m.UpdatedAt = now
	return nil
}

// RNG returns the match's deterministic PRNG. All randomness (shuffles,
// coin flips, random selection) must be drawn from this source (spec §6.4).
func (m *Match) RNG() *rand.Rand {
	return m.rng
}

// Rehydrate reseeds the match's PRNG from its stored Seed. It is a no-op if
// rng is already set (the common in-memory path); a repository loading a
// match back from persisted state calls this once, since rng is unexported
// and does not survive a JSON round-trip. The flip counter and any
// in-progress coin-flip owner are not restored — both are transient,
// within-action bookkeeping scoped to a single coin flip, never observed
// across a persistence boundary in normal operation.
func (m *Match) Rehydrate() {
	if m.rng == nil && m.State != "" && m.State != StateCreated && m.State != StateWaitingForPlayers && m.State != StateDeckValidation && m.State != StatePreGameSetup {
		m.rng = rand.New(rand.NewSource(m.Seed))
	}
}

// NextFlipCounter returns the next monotonic coin-flip counter value, used
// to key individual flips for deterministic replay diagnostics.
func (m *Match) NextFlipCounter() int {
	m.flipCounter++
	return m.flipCounter
}

// Opponent returns the playerID of the player other than playerID.
func (m *Match) Opponent(playerID string) string {
	if playerID == m.Player1ID {
		return m.Player2ID
	}
	return m.Player1ID
}

// IsActive reports whether the match is still accepting actions other than
// CONCEDE (spec §5: "post-start, only CONCEDE terminates the match").
func (m *Match) IsActive() bool {
	return m.State != StateMatchEnded && m.State != StateCancelled
}

// Concede ends the match immediately with playerID's opponent as winner.
// Always allowed while the match is active, regardless of current state.
func (m *Match) Concede(playerID string, now time.Time) error {
	if !m.IsActive() {
		return fmt.Errorf("match %s: already terminal (%s)", m.ID, m.State)
	}
	winner := m.Opponent(playerID)
	m.conclude(winner, WinConditionConcede, now)
	return nil
}

// ApplyWinCheck ends the match if result is non-nil (spec §4.6's
// side-effect queue step "win-check" run after every action).
func (m *Match) ApplyWinCheck(result *WinResult, now time.Time) {
	if result == nil {
		return
	}
	m.conclude(result.WinnerID, result.Condition, now)
}

func (m *Match) conclude(winnerID string, condition WinCondition, now time.Time) {
	m.State = StateMatchEnded
	m.WinnerID = &winnerID
	c := condition
	m.WinCondition = &c
	m.UpdatedAt = now
}

// EndTurn processes BETWEEN_TURNS bookkeeping that doesn't belong to a
// specific effect engine: swap currentPlayer, reset per-turn flags, advance
// turnNumber, and return to phase DRAW (spec §4.6's END_TURN contract).
// Poison/paralysis/triggered-ability processing is the caller's
// responsibility (internal/action's END_TURN handler), invoked before EndTurn commits the
// player swap so those effects see the outgoing player's state.
func (m *Match) EndTurn(now time.Time) error {
	if m.State != StatePlayerTurn {
		return fmt.Errorf("match %s: cannot end turn in state %s", m.ID, m.State)
	}
	m.State = StateBetweenTurns

	next := m.Opponent(m.GameState.CurrentPlayer)
	m.GameState.Player1State.ResetTurnFlags()
	m.GameState.Player2State.ResetTurnFlags()
	m.GameState.CurrentPlayer = next
	m.GameState.TurnNumber++
	m.GameState.Phase = zone.PhaseDraw

	m.State = StatePlayerTurn
	m.UpdatedAt = now
	return nil
}

// EnterKnockoutSidePhase moves PLAYER_TURN into the SELECT_ACTIVE_POKEMON
// side-phase reachable mid-turn after a knockout (spec §4.5).
func (m *Match) EnterKnockoutSidePhase() {
	m.State = StateSelectActivePokemon
}

// ResumePlayerTurnAfterSidePhase returns to PLAYER_TURN once a replacement
// active Pokemon has been set following a knockout side-phase.
func (m *Match) ResumePlayerTurnAfterSidePhase() {
	if m.State == StateSelectActivePokemon {
		m.State = StatePlayerTurn
	}
}
