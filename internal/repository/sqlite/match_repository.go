package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"tcg-match-engine/internal/events"
	"tcg-match-engine/internal/match"
	"tcg-match-engine/internal/repository"
)

// matchRepository is a repository.MatchRepository backed by a matches table
// of (id, tournament_id, json_state, updated_at) rows. playerID and
// active-state filtering happen in application code after decoding, since
// the schema deliberately carries no player columns (spec's "thin"
// envelope).
type matchRepository struct {
	db  *DB
	bus *events.Bus
}

// NewMatchRepository constructs a sqlite-backed MatchRepository over db.
func NewMatchRepository(db *DB, bus *events.Bus) repository.MatchRepository {
	return &matchRepository{db: db, bus: bus}
}

func (r *matchRepository) FindByID(ctx context.Context, id string) (*match.Match, error) {
	var jsonState string
	err := r.db.conn.QueryRowContext(ctx, `SELECT json_state FROM matches WHERE id = ?`, id).Scan(&jsonState)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeMatch(jsonState)
}

func (r *matchRepository) FindAll(ctx context.Context, tournamentID *string, playerID *string) ([]*match.Match, error) {
	var rows *sql.Rows
	var err error
	if tournamentID != nil {
		rows, err = r.db.conn.QueryContext(ctx, `SELECT json_state FROM matches WHERE tournament_id = ?`, *tournamentID)
	} else {
		rows, err = r.db.conn.QueryContext(ctx, `SELECT json_state FROM matches`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	all, err := scanMatches(rows)
	if err != nil {
		return nil, err
	}
	if playerID == nil {
		return all, nil
	}
	out := make([]*match.Match, 0, len(all))
	for _, m := range all {
		if m.Player1ID == *playerID || m.Player2ID == *playerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *matchRepository) FindActiveMatchesByPlayer(ctx context.Context, playerID string) ([]*match.Match, error) {
	rows, err := r.db.conn.QueryContext(ctx, `SELECT json_state FROM matches`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	all, err := scanMatches(rows)
	if err != nil {
		return nil, err
	}
	out := make([]*match.Match, 0)
	for _, m := range all {
		if (m.Player1ID == playerID || m.Player2ID == playerID) && m.IsActive() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *matchRepository) Save(ctx context.Context, m *match.Match) error {
	blob, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO matches (id, tournament_id, json_state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tournament_id = excluded.tournament_id,
			json_state    = excluded.json_state,
			updated_at    = excluded.updated_at
	`, m.ID, m.TournamentID, string(blob), time.Now())
	if err != nil {
		return err
	}

	if r.bus != nil {
		events.Publish(r.bus, events.MatchSavedEvent{
			MatchID:   m.ID,
			State:     string(m.State),
			Player1ID: m.Player1ID,
			Player2ID: m.Player2ID,
		})
	}
	return nil
}

func (r *matchRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
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
		events.Publish(r.bus, events.MatchDeletedEvent{MatchID: id})
	}
	return nil
}

func scanMatches(rows *sql.Rows) ([]*match.Match, error) {
	out := make([]*match.Match, 0)
	for rows.Next() {
		var jsonState string
		if err := rows.Scan(&jsonState); err != nil {
			return nil, err
		}
		m, err := decodeMatch(jsonState)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func decodeMatch(jsonState string) (*match.Match, error) {
	m := &match.Match{}
	if err := json.Unmarshal([]byte(jsonState), m); err != nil {
		return nil, err
	}
	m.Rehydrate()
	return m, nil
}
