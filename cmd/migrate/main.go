package main

import (
	"errors"
	"flag"
	"log"
	"course_mall/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

func main() {
	dir := flag.String("dir", "migrations", "migration files directory")
	down := flag.Bool("down", false, "roll back all migrations")
	force := flag.Int("force", -1, "force the schema version and clear the dirty flag")
	flag.Parse()

	_ = godotenv.Load()
	config.LoadConfig()

	m, err := migrate.New("file://"+*dir, config.GlobalConfig.Database.URL())
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if *force >= 0 {
		if err := m.Force(*force); err != nil {
			log.Fatal("Failed to force version:", err)
		}
		log.Printf("Forced version %d", *force)
		return
	}

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}

	var dirty migrate.ErrDirty
	switch {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
	case errors.As(err, &dirty):
		log.Fatalf("Database is dirty at version %d, fix it and rerun with -force %d", dirty.Version, dirty.Version-1)
	default:
		log.Fatal(err)
	}

	version, isDirty, _ := m.Version()
	log.Printf("Migration successful, version=%d dirty=%v", version, isDirty)
}
