package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"tcg-match-engine/internal/deck"
	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/repository"
)

// deckRepository is a repository.DeckRepository backed by a decks table of
// (id, tournament_id, json_state, updated_at) rows.
type deckRepository struct {
	db  *DB
	bus *events.Bus
}

// NewDeckRepository constructs a sqlite-backed DeckRepository over db.
func NewDeckRepository(db *DB, bus *events.Bus) repository.DeckRepository {
	return &deckRepository{db: db, bus: bus}
}

func (r *deckRepository) FindByID(ctx context.Context, id string) (*deck.Deck, error) {
	var jsonState string
	err := r.db.conn.QueryRowContext(ctx, `SELECT json_state FROM decks WHERE id = ?`, id).Scan(&jsonState)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeDeck(jsonState)
}

func (r *deckRepository) FindAll(ctx context.Context, tournamentID *string) ([]*deck.Deck, error) {
	var rows *sql.Rows
	var err error
	if tournamentID != nil {
		rows, err = r.db.conn.QueryContext(ctx, `SELECT json_state FROM decks WHERE tournament_id = ?`, *tournamentID)
	} else {
		rows, err = r.db.conn.QueryContext(ctx, `SELECT json_state FROM decks`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDecks(rows)
}

func (r *deckRepository) FindByCreator(ctx context.Context, createdBy string) ([]*deck.Deck, error) {
	rows, err := r.db.conn.QueryContext(ctx, `SELECT json_state FROM decks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	all, err := scanDecks(rows)
	if err != nil {
		return nil, err
	}
	out := make([]*deck.Deck, 0, len(all))
	for _, d := range all {
		if d.CreatedBy() == createdBy {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *deckRepository) Save(ctx context.Context, d *deck.Deck) error {
	blob, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO decks (id, tournament_id, json_state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tournament_id = excluded.tournament_id,
			json_state    = excluded.json_state,
			updated_at    = excluded.updated_at
	`, d.ID(), d.TournamentID(), string(blob), time.Now())
	if err != nil {
		return err
	}

	if r.bus != nil {
		events.Publish(r.bus, events.DeckSavedEvent{
			DeckID:       d.ID(),
			CreatedBy:    d.CreatedBy(),
			TournamentID: d.TournamentID(),
		})
	}
	return nil
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}

	if r.bus != nil {
		events.Publish(r.bus, events.DeckDeletedEvent{DeckID: id})
	}
	return nil
}

func scanDecks(rows *sql.Rows) ([]*deck.Deck, error) {
	out := make([]*deck.Deck, 0)
	for rows.Next() {
		var jsonState string
		if err := rows.Scan(&jsonState); err != nil {
			return nil, err
		}
		d, err := decodeDeck(jsonState)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func decodeDeck(jsonState string) (*deck.Deck, error) {
	d := &deck.Deck{}
	if err := json.Unmarshal([]byte(jsonState), d); err != nil {
		return nil, err
	}
	return d, nil
}
