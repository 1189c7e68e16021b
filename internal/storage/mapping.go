package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"gastos/internal/core"
)

// timestampLayout matches the ISO-8601 text the mobile app has always written
// (JavaScript's Date.toISOString): UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// formatTimestamp writes the millisecond form whenever it is exact and falls
// back to RFC 3339 with nanoseconds, so every instant reads back unchanged.
func formatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()%int(time.Millisecond) == 0 {
		return t.Format(timestampLayout)
	}
	return t.Format(time.RFC3339Nano)
}

// parseTimestamp accepts any RFC 3339 timestamp and bare dates, which older
// seed files contain.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unsupported format", s)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int64) bool {
	return i != 0
}

// mapWriteError turns SQLite's foreign key failure into core.ErrUserNotFound
// while keeping the driver error in the chain.
func mapWriteError(err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %w", core.ErrUserNotFound, err)
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(sqliteErr.Error(), "FOREIGN KEY")
}
