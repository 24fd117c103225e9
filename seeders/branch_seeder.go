package seeders

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"academy-admin/internal/entities"
	"academy-admin/internal/repositories"
)

var demoBranches = []entities.Branch{
	{
		Name: "Downtown Dojo",
		Address: entities.BranchAddress{
			Line1:   "12 MG Road",
			Area:    "Shivajinagar",
			City:    "Bengaluru",
			State:   "Karnataka",
			ZipCode: "560001",
			Country: "India",
		},
	},
	{
		Name: "Lakeside Academy",
		Address: entities.BranchAddress{
			Line1:   "4 Marine Drive",
			Area:    "Fort",
			City:    "Mumbai",
			State:   "Maharashtra",
			ZipCode: "400001",
			Country: "India",
		},
	},
}

// SeedBranches inserts a couple of demo branches for local development.
func SeedBranches(db *pgxpool.Pool) error {
	ctx := context.Background()
	log.Println("  - Running Branch seeder...")

	branchRepo := repositories.NewBranchRepository(db, zap.NewNop())

	var existing int
	if err := db.QueryRow(ctx, "SELECT COUNT(id) FROM branches").Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		log.Println("    Branches already present, skipping.")
		return nil
	}

	for _, b := range demoBranches {
		branch := b
		branch.ID = uuid.New().String()
		branch.IsActive = true
		if err := branchRepo.CreateBranch(ctx, &branch); err != nil {
			return err
		}
	}

	log.Printf("    %d demo branches created.", len(demoBranches))
	return nil
}
