// internal/repositories/mysql/production_repo.go
// Repo untuk data produksi bulanan per sumur (oil, gas, water)
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dca-oilgas/internal/services"
)

type ProductionRepo struct{ DB *sql.DB }

type ProdFilter struct {
	WellID string
	Start  *time.Time // inclusive
	End    *time.Time // exclusive
	Limit  int
	Offset int
}

// List: query produksi dengan filter (untuk endpoint /api/production).
func (r *ProductionRepo) List(ctx context.Context, f ProdFilter) ([]services.ProductionRecord, error) {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	// Skema: prod_monthly(propnum, p_date, oil, gas, water)
	const base = `
		SELECT propnum, p_date, oil, gas, water
		FROM prod_monthly
		WHERE 1=1`
	args := []any{}
	q := base

	if f.WellID != "" {
		q += ` AND propnum = ?`
		args = append(args, f.WellID)
	}
	if f.Start != nil {
		q += ` AND p_date >= ?`
		args = append(args, dbDate(*f.Start))
	}
	if f.End != nil {
		q += ` AND p_date < ?`
		args = append(args, dbDate(*f.End))
	}

	q += ` ORDER BY propnum, p_date LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query production: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// WellIDs: daftar propnum unik (RecordSource).
func (r *ProductionRepo) WellIDs(ctx context.Context) ([]string, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("production repo: DB is nil")
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT propnum FROM prod_monthly ORDER BY propnum`)
	if err != nil {
		return nil, fmt.Errorf("query wells: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Records: seluruh histori satu sumur, urut tanggal (RecordSource).
func (r *ProductionRepo) Records(ctx context.Context, wellID string) ([]services.ProductionRecord, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("production repo: DB is nil")
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT propnum, p_date, oil, gas, water
		FROM prod_monthly
		WHERE propnum = ?
		ORDER BY p_date`, wellID)
	if err != nil {
		return nil, fmt.Errorf("query well %s: %w", wellID, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// InsertBatch memasukkan record dalam satu transaksi (loader / test).
func (r *ProductionRepo) InsertBatch(ctx context.Context, recs []services.ProductionRecord) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO prod_monthly (propnum, p_date, oil, gas, water) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx, rec.WellID, dbDate(rec.Date), rec.Oil, rec.Gas, rec.Water); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s %s: %w", rec.WellID, dbDate(rec.Date), err)
		}
	}
	return tx.Commit()
}

func scanRecords(rows *sql.Rows) ([]services.ProductionRecord, error) {
	var out []services.ProductionRecord
	for rows.Next() {
		var (
			rec  services.ProductionRecord
			date string
		)
		if err := rows.Scan(&rec.WellID, &date, &rec.Oil, &rec.Gas, &rec.Water); err != nil {
			return nil, err
		}
		t, err := parseDBTime(date)
		if err != nil {
			return nil, fmt.Errorf("well %s: %w", rec.WellID, err)
		}
		rec.Date = t
		out = append(out, rec)
	}
	return out, rows.Err()
}
