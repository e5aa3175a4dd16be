// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes from the PostgreSQL driver and converts them
// into the phonebook's error taxonomy (e.g., a "unique violation" on the
// persons table becomes a duplicate-name validation failure).
package sqlerr
