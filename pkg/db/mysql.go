// pkg/db/mysql.go
// Helper koneksi database/sql: MySQL untuk produksi, SQLite file untuk lokal

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

type Options struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	// jumlah percobaan ping saat startup (container DB sering belum siap)
	PingRetries int
	PingBackoff time.Duration
}

func Open(ctx context.Context, driver, dsn string, o Options) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if o.MaxOpen > 0 {
		db.SetMaxOpenConns(o.MaxOpen)
	}
	if o.MaxIdle > 0 {
		db.SetMaxIdleConns(o.MaxIdle)
	}
	if o.MaxLifetime > 0 {
		db.SetConnMaxLifetime(o.MaxLifetime)
	}

	retries := o.PingRetries
	if retries < 1 {
		retries = 1
	}
	backoff := o.PingBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	for i := 0; ; i++ {
		if err = db.PingContext(ctx); err == nil {
			return db, nil
		}
		if i+1 >= retries {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	_ = db.Close()
	return nil, fmt.Errorf("ping %s: %w", driver, err)
}

func NewMySQL(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	return Open(ctx, "mysql", dsn, Options{
		MaxOpen:     maxOpen,
		MaxIdle:     maxIdle,
		MaxLifetime: 5 * time.Minute,
		PingRetries: 10,
		PingBackoff: 2 * time.Second,
	})
}

// NewSQLite membuka file SQLite. Satu koneksi writer, busy_timeout untuk run paralel.
func NewSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	return Open(ctx, "sqlite", dsn, Options{MaxOpen: 1})
}
