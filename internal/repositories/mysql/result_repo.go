// internal/repositories/mysql/result_repo.go
// Simpan & baca hasil population run DCA
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dca-oilgas/internal/services"
)

type ResultRepo struct{ DB *sql.DB }

type RunRow struct {
	RunID      string         `json:"run_id"`
	Trigger    string         `json:"trigger"`
	StartedAt  string         `json:"started_at"`
	FinishedAt string         `json:"finished_at"`
	Tally      services.Tally `json:"tally"`
}

type ResultRow struct {
	WellID            string  `json:"well_id"`
	Stream            string  `json:"stream"`
	Status            string  `json:"status"`
	Qi                float64 `json:"qi"`
	DiInstantaneous   float64 `json:"di_instantaneous"`
	AnnualizedDecline float64 `json:"annualized_decline"`
	B                 float64 `json:"b"`
	Points            int     `json:"points"`
	FitPoints         int     `json:"fit_points"`
	GORAverage        float64 `json:"gor_average"`
	GORShifted        float64 `json:"gor_shifted"`
	FirstOnline       string  `json:"first_online,omitempty"`
	Error             string  `json:"error,omitempty"`
}

var ErrRunNotFound = errors.New("run not found")

// SaveRun menyimpan ringkasan run + satu baris per (sumur, stream).
func (r *ResultRepo) SaveRun(ctx context.Context, trigger string, res *services.PopulationResult) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	rollback := func(err error) error {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM dca_results WHERE run_id = ?`, res.RunID); err != nil {
		return rollback(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM dca_runs WHERE run_id = ?`, res.RunID); err != nil {
		return rollback(err)
	}
	t := res.Tally
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO dca_runs (run_id, run_trigger, started_at, finished_at, wells, fitted_streams, sentinel_wells, failed_wells, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, trigger, dbTimestamp(res.StartedAt), dbTimestamp(res.FinishedAt),
		t.Wells, t.FittedStreams, t.SentinelWells, t.FailedWells, t.Warnings); err != nil {
		return rollback(fmt.Errorf("insert run: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dca_results (run_id, well_id, stream, status, qi, di, annualized, b, points, fit_points, gor_average, gor_shifted, first_online, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return rollback(err)
	}
	defer stmt.Close()

	for _, ws := range res.Wells {
		var first sql.NullString
		if !ws.FirstOnline.IsZero() {
			first = sql.NullString{String: dbDate(ws.FirstOnline), Valid: true}
		}
		for _, f := range ws.Fits() {
			var msg sql.NullString
			if f.Error != "" {
				msg = sql.NullString{String: truncate(f.Error, 512), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, res.RunID, ws.WellID, string(f.Stream), string(f.Status),
				f.Qi, f.DiInstantaneous, f.AnnualizedDecline, f.B, f.Points, f.FitPoints,
				ws.GOR.Average, ws.GOR.Shifted, first, msg); err != nil {
				return rollback(fmt.Errorf("insert result %s/%s: %w", ws.WellID, f.Stream, err))
			}
		}
	}
	return tx.Commit()
}

func (r *ResultRepo) GetRun(ctx context.Context, runID string) (*RunRow, error) {
	var (
		run     RunRow
		started string
		ended   string
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT run_id, run_trigger, started_at, finished_at, wells, fitted_streams, sentinel_wells, failed_wells, warnings
		FROM dca_runs WHERE run_id = ?`, runID).
		Scan(&run.RunID, &run.Trigger, &started, &ended,
			&run.Tally.Wells, &run.Tally.FittedStreams, &run.Tally.SentinelWells, &run.Tally.FailedWells, &run.Tally.Warnings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	if t, err := parseDBTime(started); err == nil {
		run.StartedAt = t.Format("2006-01-02T15:04:05Z")
	}
	if t, err := parseDBTime(ended); err == nil {
		run.FinishedAt = t.Format("2006-01-02T15:04:05Z")
	}
	return &run, nil
}

func (r *ResultRepo) ListResults(ctx context.Context, runID string) ([]ResultRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT well_id, stream, status, qi, di, annualized, b, points, fit_points, gor_average, gor_shifted, first_online, error
		FROM dca_results
		WHERE run_id = ?
		ORDER BY well_id, stream`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var (
			rr         ResultRow
			first, msg sql.NullString
		)
		if err := rows.Scan(&rr.WellID, &rr.Stream, &rr.Status, &rr.Qi, &rr.DiInstantaneous, &rr.AnnualizedDecline,
			&rr.B, &rr.Points, &rr.FitPoints, &rr.GORAverage, &rr.GORShifted, &first, &msg); err != nil {
			return nil, err
		}
		if first.Valid {
			if t, err := parseDBTime(first.String); err == nil {
				rr.FirstOnline = dbDate(t)
			}
		}
		rr.Error = msg.String
		out = append(out, rr)
	}
	return out, rows.Err()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
