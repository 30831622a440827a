package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/model"
)

var _ RoundStore = (*store)(nil)

// New creates a new RoundStore.
func New(db *sql.DB) RoundStore {
	return &store{
		db: db,
	}
}

// ReportRound archives round. Saving the same round twice keeps the first copy.
func (s *store) ReportRound(ctx context.Context, round *blackbox.Round) error {
	candidatesJSON, err := json.Marshal(toPairings(round.Candidates))
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}
	chosenJSON, err := json.Marshal(toPairings(round.Chosen))
	if err != nil {
		return fmt.Errorf("failed to marshal chosen: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO blackbox_rounds (id, drawn_at, duration_ms, coaches, heuristic, score, candidates, chosen, candidates_json, chosen_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING;
	`, round.ID.String(), round.DrawnAt.UnixMilli(), round.Duration.Milliseconds(), round.Coaches,
		round.Heuristic, round.Score, len(round.Candidates), len(round.Chosen), string(candidatesJSON), string(chosenJSON))
	if err != nil {
		return fmt.Errorf("failed to save round %s: %w", round.ID, err)
	}
	log.Debug("Archived blackbox round", "round", round.ID, "chosen", len(round.Chosen))
	return nil
}

// Rounds lists the most recent rounds, newest first. Candidate lists are
// left out; fetch a single round for them.
func (s *store) Rounds(ctx context.Context, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, drawn_at, duration_ms, coaches, heuristic, score, candidates, chosen, chosen_json
		FROM blackbox_rounds
		ORDER BY drawn_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	records := make([]RoundRecord, 0)
	for rows.Next() {
		var (
			r          RoundRecord
			drawnAt    int64
			chosenJSON string
		)
		if err := rows.Scan(&r.ID, &drawnAt, &r.DurationMs, &r.Coaches, &r.Heuristic, &r.Score, &r.CandidateCount, &r.ChosenCount, &chosenJSON); err != nil {
			return nil, err
		}
		r.DrawnAt = time.UnixMilli(drawnAt).UTC()
		if err := json.Unmarshal([]byte(chosenJSON), &r.Chosen); err != nil {
			log.Error("Failed to unmarshal chosen pairings", "error", err, "round", r.ID)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Round returns a single round with its candidates.
func (s *store) Round(ctx context.Context, id string) (*RoundRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		r                          RoundRecord
		drawnAt                    int64
		candidatesJSON, chosenJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, drawn_at, duration_ms, coaches, heuristic, score, candidates, chosen, candidates_json, chosen_json
		FROM blackbox_rounds
		WHERE id = ?
	`, id).Scan(&r.ID, &drawnAt, &r.DurationMs, &r.Coaches, &r.Heuristic, &r.Score, &r.CandidateCount, &r.ChosenCount, &candidatesJSON, &chosenJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round %s: %w", id, err)
	}
	r.DrawnAt = time.UnixMilli(drawnAt).UTC()
	if err := json.Unmarshal([]byte(candidatesJSON), &r.Candidates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidates: %w", err)
	}
	if err := json.Unmarshal([]byte(chosenJSON), &r.Chosen); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chosen: %w", err)
	}
	return &r, nil
}

func toPairings(matches []*model.Match) []Pairing {
	out := make([]Pairing, 0, len(matches))
	for _, m := range matches {
		p := Pairing{
			Team1ID:  m.Team1.ID,
			Team2ID:  m.Team2.ID,
			Coach1ID: m.Team1.CoachID(),
			Coach2ID: m.Team2.CoachID(),
		}
		if m.Suitability != nil {
			p.Suitability = *m.Suitability
		}
		out = append(out, p)
	}
	return out
}
