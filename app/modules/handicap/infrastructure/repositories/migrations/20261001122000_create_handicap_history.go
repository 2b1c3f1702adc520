package handicapmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating handicap_history table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS handicap_history (
				id BIGSERIAL PRIMARY KEY,
				player_id TEXT NOT NULL,
				handicap_index DOUBLE PRECISION NOT NULL,
				rounds_needed INTEGER NOT NULL,
				is_valid BOOLEAN NOT NULL,
				eligible_rounds INTEGER NOT NULL,
				scores_used INTEGER NOT NULL,
				computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_handicap_history_player ON handicap_history (player_id, computed_at DESC);
		`)
		if err != nil {
			return fmt.Errorf("failed to create handicap_history table: %w", err)
		}

		fmt.Println("Handicap history table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping handicap_history table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS handicap_history;`); err != nil {
			return fmt.Errorf("failed to drop handicap_history table: %w", err)
		}

		fmt.Println("Handicap history table dropped successfully!")
		return nil
	})
}
