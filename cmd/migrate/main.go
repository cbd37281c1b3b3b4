package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/samirrijal/nearmeconnect/internal/adapters/postgres"
	"github.com/samirrijal/nearmeconnect/internal/pkg/config"
)

const usage = "usage: migrate <up|down|seed|createstaff <username>>"

// defaultCategories are the service types seeded on a fresh install.
var defaultCategories = []string{
	"plumber",
	"electrician",
	"mechanic",
	"doctor",
	"tailor",
	"carpenter",
	"ac technician",
	"barber",
	"salon",
	"painter",
	"mover",
	"tutor",
	"laundry",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.Load("nearmeconnect-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, db, []string{"migrations/001_init.sql"})
	case "down":
		runMigrations(ctx, db, []string{"migrations/001_init.down.sql"})
	case "seed":
		added, err := postgres.NewCategoryRepo(db).EnsureNames(ctx, defaultCategories)
		if err != nil {
			log.Fatalf("seed categories: %v", err)
		}
		fmt.Printf("seeded %d categories (%d already present)\n", added, len(defaultCategories)-added)
	case "createstaff":
		if len(os.Args) < 3 {
			log.Fatal(usage)
		}
		if err := postgres.NewUserRepo(db).SetStaff(ctx, os.Args[2], true); err != nil {
			log.Fatalf("grant staff to %s: %v", os.Args[2], err)
		}
		fmt.Printf("%s is now staff\n", os.Args[2])
	default:
		log.Fatalf("unknown command: %s\n%s", os.Args[1], usage)
	}
}

func runMigrations(ctx context.Context, db *postgres.DB, files []string) {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("migrations applied")
}
