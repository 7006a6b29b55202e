/*
Kompilasi manual:
  go build -o tools/gen_dummy/load_to_mysql ./tools/gen_dummy

Pakai contoh:
  ./tools/gen_dummy/load_to_mysql -table prod_monthly -csv tools/gen_dummy/prod.csv \
    -dsn "dca:secret@tcp(127.0.0.1:3306)/dca?charset=utf8mb4&loc=UTC" -batch 2000

  # data sintetis hyperbolic + template ekonomi, langsung ke SQLite
  ./tools/gen_dummy/load_to_mysql -table synthetic -driver sqlite -dsn dca.db -wells 50 -months 48
*/

// [FILE] tools/gen_dummy/load_to_mysql.go
package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"dca-oilgas/internal/economic"
	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/repositories/xlsx"
	"dca-oilgas/internal/services"
	dbpkg "dca-oilgas/pkg/db"
)

var (
	csvPath   = flag.String("csv", "tools/gen_dummy/prod_monthly.csv", "CSV path")
	driver    = flag.String("driver", "mysql", "mysql|sqlite")
	dsn       = flag.String("dsn", "root:password@tcp(127.0.0.1:3306)/dca?charset=utf8mb4&loc=UTC", "MySQL DSN atau path file SQLite")
	table     = flag.String("table", "prod_monthly", "Target (prod_monthly|economic|synthetic)")
	batchSize = flag.Int("batch", 1000, "Insert batch size")
	truncate  = flag.Bool("truncate", false, "DELETE isi tabel target dulu")
	wells     = flag.Int("wells", 20, "synthetic: jumlah sumur")
	months    = flag.Int("months", 36, "synthetic: bulan produksi per sumur")
	seed      = flag.Uint64("seed", 42, "synthetic: seed random")
)

var log *zap.SugaredLogger

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	flag.Parse()
	zl, _ := zap.NewDevelopment()
	defer zl.Sync()
	log = zl.Sugar()

	allowed := map[string]bool{
		"prod_monthly": true,
		"economic":     true,
		"synthetic":    true,
	}
	if !allowed[*table] {
		log.Fatalf("unsupported table: %s", *table)
	}

	ctx := context.Background()
	var (
		db  *sql.DB
		err error
	)
	if *driver == "sqlite" {
		db, err = dbpkg.NewSQLite(ctx, *dsn)
	} else {
		db, err = dbpkg.NewMySQL(ctx, *dsn, 4, 2)
	}
	must(err)
	defer db.Close()
	must(mysqlrepo.Migrate(ctx, db))

	if *truncate {
		targets := []string{*table}
		if *table == "synthetic" {
			targets = []string{"prod_monthly", "economic"}
		}
		for _, t := range targets {
			_, err := db.ExecContext(ctx, "DELETE FROM "+t)
			must(err)
			log.Infof("[ok] truncated %s", t)
		}
	}

	prod := &mysqlrepo.ProductionRepo{DB: db}
	eco := &mysqlrepo.EconomicRepo{DB: db}

	if *table == "synthetic" {
		recs, rows := synthetic(*wells, *months, *seed)
		for start := 0; start < len(recs); start += *batchSize {
			must(prod.InsertBatch(ctx, recs[start:min(start+*batchSize, len(recs))]))
		}
		must(eco.Insert(ctx, rows))
		log.Infof("[ok] synthetic wells=%d prod rows=%d economic rows=%d", *wells, len(recs), len(rows))
		return
	}

	f, err := os.Open(*csvPath)
	must(err)
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	head, err := r.Read()
	must(err)

	switch *table {
	case "prod_monthly":
		loadProd(ctx, prod, r, head)
	case "economic":
		loadEconomic(ctx, eco, r, head)
	}
}

/* ======================= Common Helpers ======================= */

func headerIndex(h []string) map[string]int {
	m := map[string]int{}
	for i, c := range h {
		c = strings.TrimSpace(strings.ToLower(c))
		c = strings.TrimPrefix(c, "\ufeff")
		m[c] = i
	}
	return m
}

func ensureColumns(idx map[string]int, need []string) {
	for _, c := range need {
		if _, ok := idx[c]; !ok {
			log.Fatalf("missing column %q in CSV header", c)
		}
	}
}

func readRow(r *csv.Reader) ([]string, error) {
	rec, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return rec, nil
}

// nullFloat: sel kosong / tidak numerik -> NULL
func nullFloat(s string) sql.NullFloat64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

/* ======================= prod_monthly ======================= */

func loadProd(ctx context.Context, repo *mysqlrepo.ProductionRepo, r *csv.Reader, head []string) {
	idx := headerIndex(head)
	need := []string{"propnum", "p_date", "oil", "gas", "water"}
	ensureColumns(idx, need)

	batch := make([]services.ProductionRecord, 0, *batchSize)
	rows := 0
	for {
		rec, err := readRow(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			log.Fatal(err)
		}
		d, err := xlsx.ParseDate(rec[idx["p_date"]])
		if err != nil {
			log.Warnf("skip row %d: %v", rows+2, err)
			continue
		}
		batch = append(batch, services.ProductionRecord{
			WellID: strings.TrimSpace(rec[idx["propnum"]]),
			Date:   d,
			Oil:    nullFloat(rec[idx["oil"]]),
			Gas:    nullFloat(rec[idx["gas"]]),
			Water:  nullFloat(rec[idx["water"]]),
		})
		rows++
		if len(batch) == *batchSize {
			must(repo.InsertBatch(ctx, batch))
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		must(repo.InsertBatch(ctx, batch))
	}
	log.Infof("[ok] inserted prod_monthly rows: ~%d", rows)
}

/* ======================= economic ======================= */

func loadEconomic(ctx context.Context, repo *mysqlrepo.EconomicRepo, r *csv.Reader, head []string) {
	idx := headerIndex(head)
	need := []string{"propnum", "qualifier", "keyword", "expression"}
	ensureColumns(idx, need)
	_, hasSection := idx["section"]

	var out []economic.Row
	for seq := 0; ; seq++ {
		rec, err := readRow(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			log.Fatal(err)
		}
		row := economic.Row{
			Seq:        seq,
			PropNum:    strings.TrimSpace(rec[idx["propnum"]]),
			Qualifier:  rec[idx["qualifier"]],
			Keyword:    rec[idx["keyword"]],
			Expression: rec[idx["expression"]],
		}
		if hasSection {
			row.Section = rec[idx["section"]]
		}
		out = append(out, row)
	}
	must(repo.Insert(ctx, out))
	log.Infof("[ok] inserted economic rows: %d", len(out))
}

