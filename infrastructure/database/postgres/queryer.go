package postgres

import (
	"database/sql"
)

// Queryer is the read/write surface repositories depend on. *sql.DB and
// *sql.Tx both satisfy it.
type Queryer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
