package handicapmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rounds table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS rounds (
				id UUID PRIMARY KEY,
				player_id TEXT NOT NULL,
				course_id UUID NOT NULL REFERENCES courses(id),
				played_on TIMESTAMPTZ NOT NULL,
				holes_played SMALLINT NOT NULL CHECK (holes_played IN (9, 18)),
				gross_score INTEGER NOT NULL,
				to_par_gross INTEGER NOT NULL,
				net_score INTEGER,
				to_par_net INTEGER,
				stableford_gross INTEGER,
				stableford_net INTEGER,
				hole_scores JSONB NOT NULL DEFAULT '[]'::jsonb,
				tee_name TEXT,
				tee_rating DOUBLE PRECISION,
				tee_slope INTEGER,
				source TEXT NOT NULL DEFAULT 'manual',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_rounds_player_played_on ON rounds (player_id, played_on);
			CREATE INDEX IF NOT EXISTS idx_rounds_course_played_on ON rounds (course_id, played_on);
		`)
		if err != nil {
			return fmt.Errorf("failed to create rounds table: %w", err)
		}

		fmt.Println("Rounds table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping rounds table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS rounds;`); err != nil {
			return fmt.Errorf("failed to drop rounds table: %w", err)
		}

		fmt.Println("Rounds table dropped successfully!")
		return nil
	})
}
