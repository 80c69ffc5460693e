package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/painel/internal/access"
	"github.com/jask/painel/internal/catalog"
	"github.com/jask/painel/internal/database/repository"
)

// SeedID is the stable id of the n-th demo row of an entity.
func SeedID(entity string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("record:%s:%d", entity, n))).String()
}

// SeedDefaults loads the catalog demo rows and the default user's grants
// into an empty database. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB, cat *catalog.Catalog) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM records) + (SELECT COUNT(*) FROM user_permissions)`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return Seed(ctx, db, cat)
}

// Seed inserts every demo row that is missing and resets the default user's
// permissions to the catalog's default grants, expanding wildcard patterns.
func Seed(ctx context.Context, db *sql.DB, cat *catalog.Catalog) error {
	records := repository.NewRecordRepo(db)
	for _, e := range cat.Entities {
		for i, data := range e.Seed {
			rec := repository.Record{ID: SeedID(e.Slug, i), Entity: e.Slug, Data: data}
			if err := records.Upsert(ctx, rec); err != nil {
				return fmt.Errorf("seed %s: %w", e.Slug, err)
			}
		}
	}
	if cat.DefaultUser == "" || len(cat.DefaultGrants) == 0 {
		return nil
	}
	perms, err := access.Expand(cat.DefaultGrants, cat.Permissions())
	if err != nil {
		return err
	}
	return repository.NewPermissionRepo(db).Replace(ctx, cat.DefaultUser, perms.Slice())
}
