package store

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"time"

	"github.com/goliatone/go-errors"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/placora/backend/auth"
	"github.com/placora/backend/favorite"
	"github.com/placora/backend/place"
	"github.com/placora/backend/review"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// Config carries the persistence options the client consumes
type Config struct {
	Debug                 bool   `json:"debug"`
	DSN                   string `json:"dsn"`
	PingTimeoutExpression string `json:"ping_timeout"`
}

func (c Config) GetDebug() bool { return c.Debug }

func (c Config) GetDSN() string { return c.DSN }

func (c Config) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(c.PingTimeoutExpression)
	if err != nil {
		return 5 * time.Second
	}
	return dur
}

// Open connects the database, registers the models, and applies the
// embedded migrations. The returned handle is shared by every repository.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	db, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to open database")
	}

	persistence.RegisterModel((*auth.User)(nil))
	persistence.RegisterModel((*place.Place)(nil))
	persistence.RegisterModel((*review.Review)(nil))
	persistence.RegisterModel((*favorite.Favorite)(nil))

	client, err := persistence.New(cfg, db, sqlitedialect.New())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to create persistence client")
	}

	migrations, err := fs.Sub(GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to mount migrations")
	}

	client.RegisterDialectMigrations(
		migrations,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "migration dialect validation failed")
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to apply migrations")
	}

	return client.DB(), nil
}
