// internal/repositories/mysql/schema.go
// DDL portable MySQL/SQLite untuk tabel DCA

package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS prod_monthly (
		propnum VARCHAR(64) NOT NULL,
		p_date  DATE        NOT NULL,
		oil     DOUBLE      NULL,
		gas     DOUBLE      NULL,
		water   DOUBLE      NULL,
		PRIMARY KEY (propnum, p_date)
	)`,
	`CREATE TABLE IF NOT EXISTS economic (
		seq        INT          NOT NULL PRIMARY KEY,
		propnum    VARCHAR(64)  NOT NULL,
		section    VARCHAR(16)  NULL,
		qualifier  VARCHAR(32)  NULL,
		keyword    VARCHAR(32)  NOT NULL,
		expression VARCHAR(255) NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dca_runs (
		run_id         VARCHAR(36) NOT NULL PRIMARY KEY,
		run_trigger    VARCHAR(16) NOT NULL,
		started_at     DATETIME    NOT NULL,
		finished_at    DATETIME    NOT NULL,
		wells          INT         NOT NULL,
		fitted_streams INT         NOT NULL,
		sentinel_wells INT         NOT NULL,
		failed_wells   INT         NOT NULL,
		warnings       INT         NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dca_results (
		run_id       VARCHAR(36) NOT NULL,
		well_id      VARCHAR(64) NOT NULL,
		stream       VARCHAR(16) NOT NULL,
		status       VARCHAR(16) NOT NULL,
		qi           DOUBLE      NOT NULL,
		di           DOUBLE      NOT NULL,
		annualized   DOUBLE      NOT NULL,
		b            DOUBLE      NOT NULL,
		points       INT         NOT NULL,
		fit_points   INT         NOT NULL,
		gor_average  DOUBLE      NOT NULL,
		gor_shifted  DOUBLE      NOT NULL,
		first_online DATE        NULL,
		error        VARCHAR(512) NULL,
		PRIMARY KEY (run_id, well_id, stream)
	)`,
}

// Migrate membuat tabel bila belum ada.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
