// internal/repositories/mysql/util.go
package mysql

import (
	"fmt"
	"strings"
	"time"
)

// placeholders menghasilkan "?, ?, ?, ..." sebanyak n.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// Layout tanggal yang mungkin dikembalikan driver (MySQL parseTime / SQLite teks).
var dbTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDBTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range dbTimeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func dbDate(t time.Time) string { return t.UTC().Format("2006-01-02") }

func dbTimestamp(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05") }
