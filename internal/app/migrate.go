package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/hockey-analytics/internal/config"
	"github.com/riskibarqy/hockey-analytics/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
)

// DefaultMigrationDirs are searched in order when MIGRATIONS_DIR is unset.
var DefaultMigrationDirs = []string{"./db/migrations", "/app/db/migrations"}

// SchemaVersion is the applied migration of the event store schema.
type SchemaVersion struct {
	Version uint
	Dirty   bool
	None    bool
}

// Migrator applies the event store schema under db/migrations.
type Migrator struct {
	m      *migrate.Migrate
	logger *logging.Logger
}

func NewMigrator(cfg config.Config, dir string, logger *logging.Logger) (*Migrator, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		return nil, errors.New("DB_URL is required")
	}
	m, err := migrate.New("file://"+filepath.ToSlash(dir), normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Migrator{m: m, logger: logger}, nil
}

func (g *Migrator) Up() error {
	return g.apply(g.m.Up(), "event store schema applied")
}

func (g *Migrator) Down(steps int) error {
	if steps <= 0 {
		return errors.New("down steps must be > 0")
	}
	return g.apply(g.m.Steps(-steps), "event store schema rolled back", "steps", steps)
}

func (g *Migrator) Goto(version uint) error {
	return g.apply(g.m.Migrate(version), "event store schema migrated", "version", version)
}

func (g *Migrator) Force(version int) error {
	if version < 0 {
		return errors.New("version must be >= 0")
	}
	if err := g.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	g.logger.Warn("forced schema version", "version", version)
	return nil
}

func (g *Migrator) Version() (SchemaVersion, error) {
	version, dirty, err := g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return SchemaVersion{None: true}, nil
	}
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("read version: %w", err)
	}
	return SchemaVersion{Version: version, Dirty: dirty}, nil
}

func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (g *Migrator) apply(err error, msg string, args ...any) error {
	if errors.Is(err, migrate.ErrNoChange) {
		g.logger.Info("event store schema unchanged")
		return nil
	}
	if err != nil {
		return err
	}
	g.logger.Info(msg, args...)
	return nil
}

// SeedEventStore loads the demo league into an empty postgres event store.
func SeedEventStore(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	if strings.TrimSpace(cfg.DBURL) == "" {
		return errors.New("DB_URL is required")
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		return fmt.Errorf("seed event store: %w", err)
	}
	logger.InfoContext(ctx, "event store seeded", "db_name", dbNameFromURL(cfg.DBURL))
	return nil
}

// ResolveMigrationsDir returns the first existing directory among explicit
// and DefaultMigrationDirs.
func ResolveMigrationsDir(explicit string) (string, error) {
	candidates := append([]string{strings.TrimSpace(explicit)}, DefaultMigrationDirs...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found (checked %s)", strings.Join(candidates[1:], ", "))
}
