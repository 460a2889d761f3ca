package match

import (
	"errors"

	"tcg-match-engine/internal/zone"
)

// CoinFlipContext names what a queued coin flip is for (spec §4.5).
type CoinFlipContext string

const (
	CoinFlipContextFirstPlayer        CoinFlipContext = "FIRST_PLAYER"
	CoinFlipContextAttack             CoinFlipContext = "ATTACK"
	CoinFlipContextAttackPrecondition CoinFlipContext = "ATTACK_PRECONDITION"
)

var errCoinFlipInFlight = errors.New("a coin flip is already in progress for this match")

// RequestCoinFlip queues flips flips for the given context, suspending the
// triggering action at the boundary (spec §5: "coin-flip-gated attacks
// commit an intermediate state ... and return"). Only one coin flip may be
// in flight at a time per match; context=ATTACK permits either player to
// submit GENERATE_COIN_FLIP, other contexts restrict to owningPlayerID
// (spec §4.5), enforced by the caller via OwningPlayerID.
func (m *Match) RequestCoinFlip(context CoinFlipContext, flips int, owningPlayerID string) error {
	gs := m.GameState
	if gs.CoinFlipState != nil && gs.CoinFlipState.Status != zone.CoinFlipStatusCompleted {
		return errCoinFlipInFlight
	}
	gs.CoinFlipState = &zone.CoinFlipState{
		Status:         zone.CoinFlipStatusReadyToFlip,
		Context:        string(context),
		FlipsRemaining: flips,
	}
	m.coinFlipOwner = owningPlayerID
	return nil
}

// CanSubmitCoinFlip reports whether playerID may submit GENERATE_COIN_FLIP
// against the current coin-flip state (spec §4.5: ATTACK context allows
// either player; other contexts restrict to the owning player).
func (m *Match) CanSubmitCoinFlip(playerID string) bool {
	cf := m.GameState.CoinFlipState
	if cf == nil || cf.Status != zone.CoinFlipStatusReadyToFlip {
		return false
	}
	if CoinFlipContext(cf.Context) == CoinFlipContextAttack {
		return playerID == m.Player1ID || playerID == m.Player2ID
	}
	return playerID == m.coinFlipOwner
}

// GenerateCoinFlip advances coinFlipState from READY_TO_FLIP to FLIP_RESULT,
// flipping all remaining coins using the match's deterministic PRNG keyed by
// a monotonic flip counter (spec §4.6). Heads is encoded as true.
func (m *Match) GenerateCoinFlip() ([]bool, error) {
	cf := m.GameState.CoinFlipState
	if cf == nil || cf.Status != zone.CoinFlipStatusReadyToFlip {
		return nil, errors.New("no coin flip is ready")
	}
	results := make([]bool, cf.FlipsRemaining)
	for i := range results {
		m.NextFlipCounter()
		results[i] = m.rng.Intn(2) == 0 // heads
	}
	cf.ResultBits = append(cf.ResultBits, results...)
	cf.FlipsRemaining = 0
	cf.Status = zone.CoinFlipStatusFlipResult
	return results, nil
}

// CompleteCoinFlip marks the coin flip COMPLETED once the consuming action
// has consumed its result bits.
func (m *Match) CompleteCoinFlip() {
	if m.GameState.CoinFlipState != nil {
		m.GameState.CoinFlipState.Status = zone.CoinFlipStatusCompleted
	}
}
