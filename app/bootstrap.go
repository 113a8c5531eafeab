package app

import (
	"context"
	"log"

	"library-management-system/db"
)

// BootstrapFirstAdmin creates the initial superuser from the environment
// when the users table has none yet. Without it there would be no way to
// promote the first librarian.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}
	has, err := repo.HasSuperuser(ctx)
	if err != nil {
		log.Printf("bootstrap: superuser check failed: %v", err)
		return
	}
	if has {
		return
	}

	u, err := repo.CreateSuperuser(ctx, cfg.BootstrapEmail, cfg.BootstrapPassword)
	if err != nil {
		log.Printf("bootstrap: creating first admin failed: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] No admin found, created superuser %s", u.Email)
}
