package postgres

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file source driver

	apperrors "github.com/moltherm/moltherm/pkg/errors"
)

// RunMigrations applies all pending schema migrations from migrationsPath
// (a directory of numbered .up.sql/.down.sql files).  A schema that is
// already current is not an error.
func RunMigrations(dbURL, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStoreMigration, "failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperrors.Wrap(err, apperrors.ErrCodeStoreMigration, "failed to run migrations")
	}
	return nil
}

// MigrationStatus returns the current schema version and whether a previous
// migration left the schema dirty.
func MigrationStatus(dbURL, migrationsPath string) (version uint, dirty bool, err error) {
	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		return 0, false, apperrors.Wrap(err, apperrors.ErrCodeStoreMigration, "failed to create migrate instance")
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, apperrors.Wrap(err, apperrors.ErrCodeStoreMigration, "failed to get migration version")
	}
	return version, dirty, nil
}
