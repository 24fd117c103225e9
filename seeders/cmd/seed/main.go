package main

import (
	"flag"
	"log"

	"academy-admin/pkg/config"
	"academy-admin/pkg/database/postgresql"
	"academy-admin/seeders"
)

func main() {
	runAdmin := flag.Bool("admin", false, "Create the super admin account from SEED_ADMIN_* env vars")
	runBranches := flag.Bool("branches", false, "Insert demo branches")
	runAll := flag.Bool("all", false, "Run all seeders")
	flag.Parse()

	if !*runAdmin && !*runBranches && !*runAll {
		log.Println("No seeder selected.")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runAll || *runAdmin {
		if err := seeders.SeedSuperAdmin(dbPool, cfg); err != nil {
			log.Fatalf("super admin seeder failed: %v", err)
		}
	}
	if *runAll || *runBranches {
		if err := seeders.SeedBranches(dbPool); err != nil {
			log.Fatalf("branch seeder failed: %v", err)
		}
	}

	log.Println("Seeding finished.")
}
