package handicapdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/uptrace/bun"
)

// SaveHandicapSnapshot appends a snapshot to the player's history.
func (r *Impl) SaveHandicapSnapshot(ctx context.Context, db bun.IDB, snapshot *HandicapSnapshot) error {
	db = r.resolveDB(db)
	if snapshot.ComputedAt.IsZero() {
		snapshot.ComputedAt = time.Now().UTC()
	}
	if _, err := db.NewInsert().Model(snapshot).Exec(ctx); err != nil {
		return fmt.Errorf("handicapdb.SaveHandicapSnapshot: %w", err)
	}
	return nil
}

// GetLatestHandicap returns the player's most recent snapshot.
func (r *Impl) GetLatestHandicap(ctx context.Context, db bun.IDB, playerID string) (*HandicapSnapshot, error) {
	db = r.resolveDB(db)
	snap := new(HandicapSnapshot)
	err := db.NewSelect().
		Model(snap).
		Where("hh.player_id = ?", playerID).
		OrderExpr("hh.computed_at DESC, hh.id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("handicapdb.GetLatestHandicap: %w", err)
	}
	return snap, nil
}

// ListHandicapHistory returns up to limit snapshots, oldest first. limit <= 0 returns all.
func (r *Impl) ListHandicapHistory(ctx context.Context, db bun.IDB, playerID string, limit int) ([]*HandicapSnapshot, error) {
	db = r.resolveDB(db)
	var snaps []*HandicapSnapshot
	q := db.NewSelect().
		Model(&snaps).
		Where("hh.player_id = ?", playerID).
		OrderExpr("hh.computed_at DESC, hh.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("handicapdb.ListHandicapHistory: %w", err)
	}
	// newest-first query so the limit keeps the most recent entries
	slices.Reverse(snaps)
	return snaps, nil
}
