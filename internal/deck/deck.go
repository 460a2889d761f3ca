// Package deck implements C3: a constructed deck definition (distinct from
// the in-match draw pile, which lives in internal/zone) plus its validators.
package deck

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
)

// CardEntry is one (cardId, setName) line item and its quantity in a deck.
type CardEntry struct {
	CardID  string
	SetName string
	Qty     int
}

func entryKey(cardID, setName string) string {
	return cardID + "\x00" + setName
}

// Deck is a player-constructed deck definition (spec §3's Deck). It is
// mutex-guarded with copy-on-read getters, following the teacher's
// encapsulated-entity idiom (internal/game/deck.Deck).
type Deck struct {
	mu           sync.RWMutex
	id           string
	name         string
	createdBy    string
	createdAt    time.Time
	updatedAt    time.Time
	tournamentID *string
	cards        map[string]*CardEntry // keyed by entryKey(cardID, setName)
	isValid      bool
}

// NewDeck constructs an empty deck owned by createdBy.
func NewDeck(id, name, createdBy string, now time.Time) *Deck {
	return &Deck{
		id:        id,
		name:      name,
		createdBy: createdBy,
		createdAt: now,
		updatedAt: now,
		cards:     make(map[string]*CardEntry),
	}
}

func (d *Deck) ID() string           { d.mu.RLock(); defer d.mu.RUnlock(); return d.id }
func (d *Deck) Name() string         { d.mu.RLock(); defer d.mu.RUnlock(); return d.name }
func (d *Deck) CreatedBy() string    { d.mu.RLock(); defer d.mu.RUnlock(); return d.createdBy }
func (d *Deck) CreatedAt() time.Time { d.mu.RLock(); defer d.mu.RUnlock(); return d.createdAt }
func (d *Deck) UpdatedAt() time.Time { d.mu.RLock(); defer d.mu.RUnlock(); return d.updatedAt }
func (d *Deck) IsValid() bool        { d.mu.RLock(); defer d.mu.RUnlock(); return d.isValid }

// TournamentID returns the deck's bound tournament, or nil if unbound.
func (d *Deck) TournamentID() *string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tournamentID
}

// SetTournamentID binds or unbinds the deck from a tournament.
func (d *Deck) SetTournamentID(id *string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tournamentID = id
	d.updatedAt = time.Now()
}

// SetValid records the outcome of the most recent validation pass.
func (d *Deck) SetValid(valid bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isValid = valid
}

// Entries returns a copy of the deck's card entries, to prevent external
// mutation of internal state.
func (d *Deck) Entries() []CardEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return lo.MapToSlice(d.cards, func(_ string, v *CardEntry) CardEntry {
		return *v
	})
}

// AddCard adds qty copies of (cardID, setName), summing with any existing
// quantity for the same (cardID, setName) pair (spec §3: "(cardId,setName)
// unique per deck").
func (d *Deck) AddCard(cardID, setName string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be >= 1, got %d", qty)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	key := entryKey(cardID, setName)
	if existing, ok := d.cards[key]; ok {
		existing.Qty += qty
	} else {
		d.cards[key] = &CardEntry{CardID: cardID, SetName: setName, Qty: qty}
	}
	d.updatedAt = time.Now()
	return nil
}

// RemoveCard removes qty copies of (cardID, setName), deleting the entry
// entirely once its quantity reaches zero.
func (d *Deck) RemoveCard(cardID, setName string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be >= 1, got %d", qty)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	key := entryKey(cardID, setName)
	existing, ok := d.cards[key]
	if !ok {
		return fmt.Errorf("deck %s: no entry for card %s/%s", d.id, cardID, setName)
	}
	if existing.Qty < qty {
		return fmt.Errorf("deck %s: cannot remove %d copies of %s/%s, only %d present", d.id, qty, cardID, setName, existing.Qty)
	}
	existing.Qty -= qty
	if existing.Qty == 0 {
		delete(d.cards, key)
	}
	d.updatedAt = time.Now()
	return nil
}

// SetCardQuantity sets the exact quantity for (cardID, setName), removing the
// entry if qty is zero.
func (d *Deck) SetCardQuantity(cardID, setName string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("quantity must be >= 0, got %d", qty)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	key := entryKey(cardID, setName)
	if qty == 0 {
		delete(d.cards, key)
	} else {
		d.cards[key] = &CardEntry{CardID: cardID, SetName: setName, Qty: qty}
	}
	d.updatedAt = time.Now()
	return nil
}

// ClearCards removes every entry from the deck.
func (d *Deck) ClearCards() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cards = make(map[string]*CardEntry)
	d.updatedAt = time.Now()
}

// GetTotalCardCount sums quantities across every entry.
func (d *Deck) GetTotalCardCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return lo.SumBy(lo.Values(d.cards), func(e *CardEntry) int { return e.Qty })
}

// GetCardQuantity returns the quantity on file for (cardID, setName), or 0.
func (d *Deck) GetCardQuantity(cardID, setName string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if e, ok := d.cards[entryKey(cardID, setName)]; ok {
		return e.Qty
	}
	return 0
}

// HasCard reports whether the deck contains any copies of (cardID, setName).
func (d *Deck) HasCard(cardID, setName string) bool {
	return d.GetCardQuantity(cardID, setName) > 0
}

// GetUniqueSets returns the distinct set names referenced by the deck's
// entries.
func (d *Deck) GetUniqueSets() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	sets := lo.Uniq(lo.Map(lo.Values(d.cards), func(e *CardEntry, _ int) string { return e.SetName }))
	return sets
}

// deckSnapshot is the exported shape a Deck marshals to and unmarshals from;
// internal/repository stores this verbatim as a JSON blob column.
type deckSnapshot struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CreatedBy    string       `json:"createdBy"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	TournamentID *string      `json:"tournamentId,omitempty"`
	Entries      []CardEntry  `json:"entries"`
	IsValid      bool         `json:"isValid"`
}

// MarshalJSON encodes the deck's full state, the unexported mutex aside, so
// it round-trips through a repository's JSON-blob persistence.
func (d *Deck) MarshalJSON() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entries := lo.MapToSlice(d.cards, func(_ string, v *CardEntry) CardEntry { return *v })
	return json.Marshal(deckSnapshot{
		ID:           d.id,
		Name:         d.name,
		CreatedBy:    d.createdBy,
		CreatedAt:    d.createdAt,
		UpdatedAt:    d.updatedAt,
		TournamentID: d.tournamentID,
		Entries:      entries,
		IsValid:      d.isValid,
	})
}

// UnmarshalJSON restores a deck from a deckSnapshot. d's zero-value mutex is
// safe to use once populated this way.
func (d *Deck) UnmarshalJSON(data []byte) error {
	var snap deckSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	d.id = snap.ID
	d.name = snap.Name
	d.createdBy = snap.CreatedBy
	d.createdAt = snap.CreatedAt
	d.updatedAt = snap.UpdatedAt
	d.tournamentID = snap.TournamentID
	d.isValid = snap.IsValid
	d.cards = make(map[string]*CardEntry, len(snap.Entries))
	for _, e := range snap.Entries {
		entry := e
		d.cards[entryKey(entry.CardID, entry.SetName)] = &entry
	}
	return nil
}
