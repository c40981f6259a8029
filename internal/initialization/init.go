// The init package sets up required local dependencies: the sqlite database
// and the backlite task tables.
package initialization

import (
	"database/sql"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/lessondesk/internal/config"
)

func OpenDB(connString string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", connString)
	if err != nil {
		log.Fatal().Err(err).Str("connection string", connString).Msg("failed to open database")
	}
	return db, err
}

// SetupDB applies all remaining migrations to the local database.
func SetupDB(db *sql.DB, folder, dbname string) error {
	log.Info().Msg("starting migrations")
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		log.Error().Err(err).Msg("failed to create sqlite3 migration driver")
		return err
	}

	mig, err := migrate.NewWithDatabaseInstance(
		"file://"+folder,
		dbname,
		driver,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Migrate object")
		return err
	}

	err = mig.Up()
	if err == migrate.ErrNoChange {
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to run migrations")
	}
	return err
}

// InitQueue prepares the backlite client and its task tables on the local
// database.
func InitQueue(cfg *config.Configuration, db *sql.DB) (*backlite.Client, error) {
	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      1,
		ReleaseAfter:    10 * time.Minute,
		CleanupInterval: time.Hour,
	})
	if err != nil {
		return nil, err
	}

	if err := client.Install(); err != nil {
		return nil, err
	}
	return client, nil
}
