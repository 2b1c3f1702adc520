package handicapmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating courses and course_tees tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS courses (
					id UUID PRIMARY KEY,
					name TEXT NOT NULL,
					location TEXT,
					holes JSONB NOT NULL DEFAULT '[]'::jsonb,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create courses table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS course_tees (
					id BIGSERIAL PRIMARY KEY,
					course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					rating DOUBLE PRECISION,
					slope INTEGER,
					UNIQUE (course_id, name)
				);
			`); err != nil {
				return fmt.Errorf("failed to create course_tees table: %w", err)
			}

			fmt.Println("Courses tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping courses tables...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS course_tees; DROP TABLE IF EXISTS courses;`); err != nil {
			return fmt.Errorf("failed to drop courses tables: %w", err)
		}

		fmt.Println("Courses tables dropped successfully!")
		return nil
	})
}
