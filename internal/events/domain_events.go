package events

// EnergyAttachedEvent fires after ATTACH_ENERGY mutates a card instance's
// attached-energy list. Ability listeners (e.g. "whenever you attach a Water
// Energy to this Pokemon, heal 1 damage") subscribe to this.
type EnergyAttachedEvent struct {
	MatchID    string
	PlayerID   string
	InstanceID string
	EnergyType string
}

// PokemonKnockedOutEvent fires when a card instance's currentHp drops to or
// below zero and it is moved to discard. Ability/trainer listeners that
// react to knockouts (either player's) subscribe to this.
type PokemonKnockedOutEvent struct {
	MatchID        string
	OwnerPlayerID  string
	InstanceID     string
	CardID         string
	WasActive      bool
	KnockedOutByID string // instance ID of the attacker, if applicable
}

// StatusAppliedEvent describes a status effect applied to a card instance.
// Nothing in this module publishes it: applying a status in internal/effect
// emits no event.
type StatusAppliedEvent struct {
	MatchID    string
	InstanceID string
	Status     string
}

// TurnEndedEvent fires once per END_TURN submission, after the ending
// player's poison/paralysis/asleep processing and before currentPlayer is
// swapped. Its listeners run end-of-turn triggered abilities (wired by
// internal/engine); the status processing itself runs in the END_TURN
// handler, not in listeners.
type TurnEndedEvent struct {
	MatchID           string
	EndingPlayerID     string
	TurnNumber        int
}

// CardPlayedEvent fires after a trainer card or Pokemon card successfully
// resolves, before it is moved to its resting zone. Abilities that trigger
// "whenever you play a Supporter card" subscribe to this.
type CardPlayedEvent struct {
	MatchID    string
	PlayerID   string
	CardID     string
	CardType   string
}

// AttackResolvedEvent fires after an ATTACK action fully resolves (damage
// dealt, effects applied, knockouts processed).
type AttackResolvedEvent struct {
	MatchID      string
	AttackerID   string
	AttackName   string
	DamageDealt  int
}

// DeckSavedEvent is published by internal/repository's DeckRepository after
// every Save, mirroring the teacher's GameRepositoryImpl publishing
// GameCreatedEvent/GameUpdatedEvent after its own mutating calls.
type DeckSavedEvent struct {
	DeckID       string
	CreatedBy    string
	TournamentID *string
}

// DeckDeletedEvent is published after a DeckRepository.Delete.
type DeckDeletedEvent struct {
	DeckID string
}

// MatchSavedEvent is published by internal/repository's MatchRepository after
// every Save.
type MatchSavedEvent struct {
	MatchID       string
	State         string
	Player1ID     string
	Player2ID     string
}

// MatchDeletedEvent is published after a MatchRepository.Delete.
type MatchDeletedEvent struct {
	MatchID string
}
