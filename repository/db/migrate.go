package db

import (
	stderrors "errors"
	"fmt"

	"todobooks/internal/domain/errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migration creates the todos table from the SQL files under migratePath.
// An already up-to-date schema is not an error.
func Migration(dsn, migratePath string) error {
	if dsn == "" {
		return fmt.Errorf("%w: empty connection string", errors.ErrDatabaseConnection)
	}
	if migratePath == "" {
		return fmt.Errorf("%w: empty migrations path", errors.ErrConfigInvalidFormat)
	}

	m, err := migrate.New("file://"+migratePath, dsn)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
