package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDriverName is the database/sql driver used for sqlite stores. It is
// go-sqlite3 with unicode_lower registered on every connection.
const SQLiteDriverName = "sqlite3_recipes"

// SQLiteLowerFunc folds case by Unicode rules. The built-in LOWER only
// folds ASCII.
const SQLiteLowerFunc = "unicode_lower"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(SQLiteLowerFunc, strings.ToLower, true)
		},
	})
}
