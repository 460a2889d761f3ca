package zone

// Phase identifies where within a turn (or match setup) play currently is.
type Phase string

const (
	PhaseDraw      Phase = "DRAW"
	PhaseMainPhase Phase = "MAIN_PHASE"
	PhaseAttack    Phase = "ATTACK"
	PhaseEnd       Phase = "END"
)

// CoinFlipStatus is the status of an in-progress coin-flip sub-state-machine
// (spec §4.5's coin-flip state machine).
type CoinFlipStatus string

const (
	CoinFlipStatusReadyToFlip CoinFlipStatus = "READY_TO_FLIP"
	CoinFlipStatusFlipResult  CoinFlipStatus = "FLIP_RESULT"
	CoinFlipStatusCompleted  CoinFlipStatus = "COMPLETED"
)

// CoinFlipState tracks an in-flight coin flip (e.g. an attack effect that
// flips until tails, or a single flip for a card effect).
type CoinFlipState struct {
	Status         CoinFlipStatus
	Context        string // opaque description of what the flip is for
	ResultBits     []bool // heads=true, in flip order
	FlipsRemaining int
}

// ActionRecord is one entry in the append-only action history (spec §4.1).
type ActionRecord struct {
	ActionID   string
	PlayerID   string
	ActionType string
	TurnNumber int
	Payload    map[string]any
}

// GameState is the top-level, per-match mutable state (spec §3). Callers
// such as the action executor set its fields (Phase, StadiumInPlay, ...)
// directly, and its player states change through PlayerGameState's
// in-place mutators.
type GameState struct {
	Player1State  *PlayerGameState
	Player2State  *PlayerGameState
	TurnNumber    int // starts at 1
	Phase         Phase
	CurrentPlayer string // playerId
	LastActionID  *string

	ActionHistory []ActionRecord
	CoinFlipState *CoinFlipState
	StadiumInPlay *string // cardId of the stadium in play, if any
}

// NewGameState constructs the initial state for a freshly-assembled match.
func NewGameState(player1ID, player2ID string) *GameState {
	return &GameState{
		Player1State: NewPlayerGameState(player1ID),
		Player2State: NewPlayerGameState(player2ID),
		TurnNumber:   1,
		Phase:        PhaseDraw,
	}
}

// Clone deep-copies the entire game state.
func (gs *GameState) Clone() *GameState {
	next := &GameState{
		Player1State:  gs.Player1State.Clone(),
		Player2State:  gs.Player2State.Clone(),
		TurnNumber:    gs.TurnNumber,
		Phase:         gs.Phase,
		CurrentPlayer: gs.CurrentPlayer,
		StadiumInPlay: gs.StadiumInPlay,
	}
	if gs.LastActionID != nil {
		v := *gs.LastActionID
		next.LastActionID = &v
	}
	next.ActionHistory = make([]ActionRecord, len(gs.ActionHistory))
	copy(next.ActionHistory, gs.ActionHistory)

	if gs.CoinFlipState != nil {
		cf := *gs.CoinFlipState
		cf.ResultBits = make([]bool, len(gs.CoinFlipState.ResultBits))
		copy(cf.ResultBits, gs.CoinFlipState.ResultBits)
		next.CoinFlipState = &cf
	}
	return next
}

// PlayerState returns the PlayerGameState belonging to playerID, or nil if
// playerID matches neither player.
func (gs *GameState) PlayerState(playerID string) *PlayerGameState {
	switch playerID {
	case gs.Player1State.PlayerID:
		return gs.Player1State
	case gs.Player2State.PlayerID:
		return gs.Player2State
	default:
		return nil
	}
}

// Opponent returns the PlayerGameState of the player other than playerID.
func (gs *GameState) Opponent(playerID string) *PlayerGameState {
	switch playerID {
	case gs.Player1State.PlayerID:
		return gs.Player2State
	case gs.Player2State.PlayerID:
		return gs.Player1State
	default:
		return nil
	}
}

// AppendAction appends a record to the append-only action history and
// records it as the last action.
func (gs *GameState) AppendAction(rec ActionRecord) {
	gs.ActionHistory = append(gs.ActionHistory, rec)
	id := rec.ActionID
	gs.LastActionID = &id
}

// TotalZoneCount sums both players' zone counts, the quantity that must be
// monotone non-increasing across any single transition within one player's
// zones (spec §4.4); it is exposed here for whole-state conservation checks
// in tests.
func (gs *GameState) TotalZoneCount() int {
	return gs.Player1State.TotalZoneCount() + gs.Player2State.TotalZoneCount()
}
