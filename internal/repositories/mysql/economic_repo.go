// internal/repositories/mysql/economic_repo.go
// Repo tabel model ekonomi (baris QUALIFIER/KEYWORD/EXPRESSION per propnum)
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"dca-oilgas/internal/economic"
)

type EconomicRepo struct{ DB *sql.DB }

// Load mengambil baris ekonomi, opsional dibatasi ke sumur tertentu. Urut seq.
func (r *EconomicRepo) Load(ctx context.Context, wellIDs ...string) ([]economic.Row, error) {
	q := `SELECT seq, propnum, section, qualifier, keyword, expression FROM economic`
	args := make([]any, 0, len(wellIDs))
	if len(wellIDs) > 0 {
		q += ` WHERE propnum IN (` + placeholders(len(wellIDs)) + `)`
		for _, id := range wellIDs {
			args = append(args, id)
		}
	}
	q += ` ORDER BY seq`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query economic: %w", err)
	}
	defer rows.Close()

	var out []economic.Row
	for rows.Next() {
		var (
			row                         economic.Row
			section, qualifier, express sql.NullString
		)
		if err := rows.Scan(&row.Seq, &row.PropNum, &section, &qualifier, &row.Keyword, &express); err != nil {
			return nil, err
		}
		row.Section = section.String
		row.Qualifier = qualifier.String
		row.Expression = express.String
		out = append(out, row)
	}
	return out, rows.Err()
}

// UpdateExpressions menulis ulang kolom expression by seq dalam satu transaksi.
func (r *EconomicRepo) UpdateExpressions(ctx context.Context, rows []economic.Row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `UPDATE economic SET expression = ? WHERE seq = ?`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Expression, row.Seq); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("update economic seq %d: %w", row.Seq, err)
		}
	}
	return tx.Commit()
}

// Insert dipakai loader CSV dan test.
func (r *EconomicRepo) Insert(ctx context.Context, rows []economic.Row) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO economic (seq, propnum, section, qualifier, keyword, expression) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Seq, row.PropNum, row.Section, row.Qualifier, row.Keyword, row.Expression); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert economic seq %d: %w", row.Seq, err)
		}
	}
	return tx.Commit()
}
