package handicapdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreateRound inserts a round.
func (r *Impl) CreateRound(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	if round.ID == uuid.Nil {
		round.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(round).Exec(ctx); err != nil {
		return fmt.Errorf("handicapdb.CreateRound: %w", err)
	}
	return nil
}

// GetRound retrieves a round by ID.
func (r *Impl) GetRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("r.id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("handicapdb.GetRound: %w", err)
	}
	return round, nil
}

// ListRoundsByPlayer returns the player's full history across all courses, oldest first.
func (r *Impl) ListRoundsByPlayer(ctx context.Context, db bun.IDB, playerID string) ([]*Round, error) {
	db = r.resolveDB(db)
	var rounds []*Round
	err := db.NewSelect().
		Model(&rounds).
		Where("r.player_id = ?", playerID).
		OrderExpr("r.played_on ASC, r.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("handicapdb.ListRoundsByPlayer: %w", err)
	}
	return rounds, nil
}

// ListRoundsByCourse returns the course pool within the optional date bounds (inclusive).
func (r *Impl) ListRoundsByCourse(ctx context.Context, db bun.IDB, query RoundQuery) ([]*Round, error) {
	db = r.resolveDB(db)
	var rounds []*Round
	q := db.NewSelect().
		Model(&rounds).
		Where("r.course_id = ?", query.CourseID)
	if !query.From.IsZero() {
		q = q.Where("r.played_on >= ?", query.From)
	}
	if !query.To.IsZero() {
		q = q.Where("r.played_on <= ?", query.To)
	}
	if err := q.OrderExpr("r.played_on ASC, r.created_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("handicapdb.ListRoundsByCourse: %w", err)
	}
	return rounds, nil
}

// DeleteRound removes a round.
func (r *Impl) DeleteRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Round)(nil)).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("handicapdb.DeleteRound: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("handicapdb.DeleteRound: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
