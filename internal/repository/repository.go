// Package repository is the persistence layer. Postgres holds the durable
// journal records; Redis holds sessions, the token blacklist and caches.
package repository

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a scoped lookup or write matches no row
var ErrNotFound = errors.New("record not found")

// IsNotFound reports whether an error means the record does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

func requireRowAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
