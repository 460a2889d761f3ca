// Package projection implements C9: the (GameState, viewer) → DTO
// projection the polling match API returns (spec §4.9/§6.3). It follows the
// teacher's ToGameDto(game, cardRegistry, viewerID) personalized-view idiom:
// the viewing player's own zones render in full, the opponent's render with
// hand contents hidden.
package projection

import (
	"tcg-match-engine/internal/filter"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/zone"
)

// CardInstanceView is the wire-level rendering of a zone.CardInstance.
type CardInstanceView struct {
	InstanceID     string
	CardID         string
	Position       zone.Position
	CurrentHP      int
	MaxHP          int
	AttachedEnergy []string
	Statuses       []string
}

// PlayerStateView is the full (non-hidden) rendering of one player's zones,
// returned for the viewing player's own side (spec §4.9's `playerState`).
type PlayerStateView struct {
	PlayerID                   string
	HandCardIDs                []string
	DeckCount                  int
	ActivePokemon              *CardInstanceView
	Bench                      []*CardInstanceView
	PrizeCount                 int
	DiscardPile                []*CardInstanceView
	HasAttachedEnergyThisTurn  bool
	HasPlayedSupporterThisTurn bool
}

// OpponentStateView is the hidden-information rendering of the other
// player's zones (spec §4.9's `opponentState`): counts only for
// hand/deck/prizes; the discard pile and active/bench instances are fully
// visible, not reduced to counts. RevealedHand is populated only in the
// explicit reveal states spec §4.9 names.
type OpponentStateView struct {
	PlayerID      string
	HandCount     int
	DeckCount     int
	ActivePokemon *CardInstanceView
	Bench         []*CardInstanceView
	PrizeCount    int
	DiscardPile   []*CardInstanceView
	RevealedHand  []string // nil except during INITIAL_SETUP/DRAWING_CARDS reveal states
}

// View is the full projection returned to one viewer (spec §4.9).
type View struct {
	MatchID          string
	State            match.State
	CurrentPlayer    string
	TurnNumber       int
	Phase            zone.Phase
	PlayerState      PlayerStateView
	OpponentState    OpponentStateView
	AvailableActions []match.ActionType
	LastAction       *zone.ActionRecord
}

// revealStates are the states in which spec §4.9 requires the opponent's
// hand to be revealed rather than hidden as counts.
var revealStates = map[match.State]bool{
	match.StateDrawingCards: true,
	match.StateInitialSetup: true,
}

// Project builds viewerID's personalized view of m using registry to
// compute availableActions (C8).
func Project(m *match.Match, viewerID string, registry *filter.Registry) View {
	gs := m.GameState
	viewerState := gs.PlayerState(viewerID)
	opponentState := gs.Opponent(viewerID)

	v := View{
		MatchID:          m.ID,
		State:            m.State,
		CurrentPlayer:    gs.CurrentPlayer,
		TurnNumber:       gs.TurnNumber,
		Phase:            gs.Phase,
		PlayerState:      toPlayerStateView(viewerState),
		OpponentState:    toOpponentStateView(opponentState, m.State),
		AvailableActions: registry.Available(m, viewerID),
	}
	if n := len(gs.ActionHistory); n > 0 {
		last := gs.ActionHistory[n-1]
		v.LastAction = &last
	}
	return v
}

func toPlayerStateView(ps *zone.PlayerGameState) PlayerStateView {
	if ps == nil {
		return PlayerStateView{}
	}
	view := PlayerStateView{
		PlayerID:                   ps.PlayerID,
		HandCardIDs:                cardIDsOf(ps.Hand),
		DeckCount:                  len(ps.Deck),
		ActivePokemon:              toInstanceView(ps.ActivePokemon),
		Bench:                      toInstanceViews(ps.Bench[:]),
		PrizeCount:                 len(ps.PrizeCards),
		DiscardPile:                toInstanceViewSlice(ps.DiscardPile),
		HasAttachedEnergyThisTurn:  ps.HasAttachedEnergyThisTurn,
		HasPlayedSupporterThisTurn: ps.HasPlayedSupporterThisTurn,
	}
	return view
}

func toOpponentStateView(ps *zone.PlayerGameState, state match.State) OpponentStateView {
	if ps == nil {
		return OpponentStateView{}
	}
	view := OpponentStateView{
		PlayerID:      ps.PlayerID,
		HandCount:     len(ps.Hand),
		DeckCount:     len(ps.Deck),
		ActivePokemon: toInstanceView(ps.ActivePokemon),
		Bench:         toInstanceViews(ps.Bench[:]),
		PrizeCount:    len(ps.PrizeCards),
		DiscardPile:   toInstanceViewSlice(ps.DiscardPile),
	}
	if revealStates[state] {
		view.RevealedHand = cardIDsOf(ps.Hand)
	}
	return view
}

func cardIDsOf(instances []*zone.CardInstance) []string {
	ids := make([]string, len(instances))
	for i, ci := range instances {
		ids[i] = ci.CardID
	}
	return ids
}

func toInstanceView(ci *zone.CardInstance) *CardInstanceView {
	if ci == nil {
		return nil
	}
	statuses := make([]string, 0, len(ci.StatusEffects))
	for s, active := range ci.StatusEffects {
		if active {
			statuses = append(statuses, string(s))
		}
	}
	energy := make([]string, len(ci.AttachedEnergy))
	copy(energy, ci.AttachedEnergy)
	return &CardInstanceView{
		InstanceID:     ci.InstanceID,
		CardID:         ci.CardID,
		Position:       ci.Position,
		CurrentHP:      ci.CurrentHP,
		MaxHP:          ci.MaxHP,
		AttachedEnergy: energy,
		Statuses:       statuses,
	}
}

func toInstanceViews(instances []*zone.CardInstance) []*CardInstanceView {
	views := make([]*CardInstanceView, len(instances))
	for i, ci := range instances {
		views[i] = toInstanceView(ci)
	}
	return views
}

func toInstanceViewSlice(instances []*zone.CardInstance) []*CardInstanceView {
	views := make([]*CardInstanceView, 0, len(instances))
	for _, ci := range instances {
		if v := toInstanceView(ci); v != nil {
			views = append(views, v)
		}
	}
	return views
}
