// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/log"
	"github.com/rfpdesk/rfpmail/persistence/migrations"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type Persistence struct {
	*repository

	db *sqlx.DB
	l  *logrus.Logger
}

// NewPersistence connects with driver "sqlite3" (cgo), "sqlite" (pure go) or "postgres"
// and migrates the schema to the newest version.
func NewPersistence(driver, datasource string) (*Persistence, error) {
	db, err := sqlx.Connect(driver, datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}

	l := log.Logger(log.LOG_PERSISTENCE)

	dialect := "postgres"
	if driver != "postgres" {
		dialect = "sqlite3"
		db.SetMaxOpenConns(1)

		_, err = db.Exec(`PRAGMA journal_mode=WAL`)
		if err != nil {
			return nil, fmt.Errorf("could not set journal mode: %w", err)
		}
		_, err = db.Exec(`PRAGMA synchronous=normal`)
		if err != nil {
			return nil, fmt.Errorf("could not set synchronous mode: %w", err)
		}
		_, err = db.Exec(`PRAGMA foreign_keys=ON`)
		if err != nil {
			return nil, fmt.Errorf("could not enable foreign keys: %w", err)
		}
	}

	l.WithFields(logrus.Fields{"driver": driver}).Info("Connected")

	appliedMigrations, err := migrate.Exec(db.DB, dialect, migrations.Source(dialect), migrate.Up)
	if err != nil {
		return nil, fmt.Errorf("could not migrate to newest version: %w", err)
	}

	l.WithField("migrations", appliedMigrations).Debug("Executed migrations")

	return &Persistence{
		repository: &repository{q: db, l: l},
		db:         db,
		l:          l,
	}, nil
}

func (p *Persistence) Close() error {
	err := p.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	p.l.Info("Disconnected")
	return nil
}

func (p *Persistence) InTx(ctx context.Context, fn func(repo domain.Repository) error) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	return txEnd(tx, fn(&repository{q: tx, l: p.l}))
}

func txEnd(tx *sqlx.Tx, err error) error {
	if err == nil {
		err = tx.Commit()
		if err != nil {
			return fmt.Errorf("could not commit tx: %w", err)
		}
	} else {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			return fmt.Errorf("%w, could not rollback tx: %v", err, rollbackErr)
		} else {
			return err
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var sqlite3Err sqlite3.Error
	if errors.As(err, &sqlite3Err) {
		return sqlite3Err.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}
