// Package database implements the store interfaces on top of database/sql.
//
// SQLite (github.com/mattn/go-sqlite3) is the default backend; PostgreSQL is
// available through the pgx stdlib driver. Both share the same queries, which
// use $n placeholders in ascending order so SQLite binds them positionally.
// Schema changes are embedded goose migrations, one directory per dialect.
package database
