package kvstore

import "database/sql"

// FailExec makes every statement executed through the backend fail with err.
// This file only compiles during `go test`.
func (b *SQLiteBackend) FailExec(err error) {
	b.hooks.exec = func(*sql.DB, string, ...any) (sql.Result, error) {
		return nil, err
	}
}
