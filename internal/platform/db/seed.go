package db

import (
	"context"
	"log/slog"
	"strings"

	"schooloffice/internal/domain/auth"
	"schooloffice/internal/domain/ledger"
	"schooloffice/internal/platform/config"
	"schooloffice/internal/platform/querier"
)

// Seed inserts the default ledger categories and, when configured, the
// first admin user. Running it twice is a no-op.
func Seed(ctx context.Context, db querier.Querier, cfg config.Config) error {
	if err := ensureCategories(ctx, db); err != nil {
		return err
	}
	return ensureAdminUser(ctx, auth.NewStore(db), cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureCategories(ctx context.Context, db querier.Querier) error {
	for _, c := range ledger.DefaultCategories {
		_, err := db.Exec(ctx, "INSERT INTO transaction_categories (name, type) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING", c.Name, c.Type)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, users *auth.Store, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	created, err := users.EnsureUser(ctx, email, hash, auth.RoleAdmin)
	if err != nil {
		return err
	}
	if created {
		slog.Info("seeded admin user", "email", email)
	}
	return nil
}
