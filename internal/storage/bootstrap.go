package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gastos/internal/log"
)

// Environment selects how the database file comes into existence.
type Environment string

const (
	// Development opens or creates the database in place.
	Development Environment = "development"
	// Production installs the bundled seed database on first run.
	Production Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsValid returns true if the environment is known.
func (e Environment) IsValid() bool {
	switch e {
	case Development, Production:
		return true
	default:
		return false
	}
}

// Options configures InitDatabase.
type Options struct {
	Environment Environment
	Path        string

	// Seed and SeedPath locate the pre-populated database copied into Path in
	// production when no database exists there yet.
	Seed     fs.FS
	SeedPath string
}

// InitDatabase prepares the database for the given environment and returns the
// open handle with the schema in place. It runs once at process start; every
// failure is returned because nothing can work without a database.
func InitDatabase(ctx context.Context, opts Options) (*DB, error) {
	switch opts.Environment {
	case Development:
	case Production:
		if opts.Path == "" || opts.Path == MemoryPath {
			return nil, fmt.Errorf("production database needs a file path, got %q", opts.Path)
		}
		copied, err := installSeed(opts.Seed, opts.SeedPath, opts.Path)
		if err != nil {
			return nil, fmt.Errorf("install seed database: %w", err)
		}
		if copied {
			slog.InfoContext(ctx, "Seed database installed",
				log.FieldComponent, log.ComponentStorage,
				log.FieldPath, opts.Path,
				"seed", opts.SeedPath)
		}
	default:
		return nil, fmt.Errorf("unsupported environment: %q", opts.Environment)
	}

	db, err := Open(ctx, opts.Path)
	if err != nil {
		return nil, err
	}

	// Also patches seed files that predate a table.
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	slog.InfoContext(ctx, "Database initialized",
		log.FieldComponent, log.ComponentStorage,
		log.FieldEnv, opts.Environment.String(),
		log.FieldPath, opts.Path)

	return db, nil
}

// installSeed copies the seed asset to dst unless a file already exists there.
// It reports whether a copy happened. The check and the copy are not atomic,
// which is fine for a single process running its bootstrap once; the copy goes
// through a temp file so a crash never leaves a truncated database at dst.
func installSeed(seed fs.FS, name, dst string) (bool, error) {
	_, err := os.Stat(dst)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat database: %w", err)
	}
	if seed == nil || name == "" {
		return false, errors.New("no seed asset configured")
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("create db directory: %w", err)
	}

	src, err := seed.Open(name)
	if err != nil {
		return false, fmt.Errorf("open seed asset: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dir, ".seed-*.db")
	if err != nil {
		return false, fmt.Errorf("create temp database: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		cleanup()
		return false, fmt.Errorf("copy seed asset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return false, fmt.Errorf("sync temp database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return false, fmt.Errorf("close temp database: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return false, fmt.Errorf("move seed into place: %w", err)
	}

	return true, nil
}
