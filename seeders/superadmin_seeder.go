package seeders

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"academy-admin/internal/entities"
	"academy-admin/internal/repositories"
	"academy-admin/pkg/config"
	"academy-admin/pkg/service"
	"academy-admin/pkg/utils"
)

func SeedSuperAdmin(db *pgxpool.Pool, cfg *config.Config) error {
	ctx := context.Background()
	log.Println("  - Running SuperAdmin seeder...")

	email := cfg.Seeder.AdminEmail
	password := cfg.Seeder.AdminPassword
	if email == "" || password == "" {
		log.Println("    SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set, skipping.")
		return nil
	}

	adminRepo := repositories.NewAdminRepository(db)

	if _, err := adminRepo.FindByEmail(ctx, email); err == nil {
		log.Println("    Super admin already exists, leaving as is.")
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &entities.Admin{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     cfg.Seeder.AdminFullName,
		PasswordHash: hash,
		Role:         service.RoleSuperAdmin,
	}
	if err := adminRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("    Super admin %s created.", email)
	return nil
}
