package db_test

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/siteadmin/internal/db"
)

func TestInitPostgres_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		dsn        string
		wantSubstr string
	}{
		{"unreachable host", "host=127.0.0.1 port=1 user=x dbname=siteadmin sslmode=disable connect_timeout=1", "ping postgres"},
		{"empty DSN", "", "ping postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.InitPostgres(tc.dsn)
			if err == nil {
				t.Fatalf("InitPostgres(%q) did not return error", tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("InitPostgres(%q) error = %q; want substring %q", tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}

// ddl matches the statements every table the backend reads from depends on.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS admins \(`,
	`email TEXT NOT NULL UNIQUE`,
	`CREATE TABLE IF NOT EXISTS tokens \(`,
	`REFERENCES admins\(id\) ON DELETE CASCADE`,
	`CREATE INDEX IF NOT EXISTS tokens_created_at_idx ON tokens \(created_at\)`,
	`CREATE TABLE IF NOT EXISTS documents \(`,
	`body JSONB NOT NULL`,
	`PRIMARY KEY \(kind, id\)`,
}

func TestMigrate_CreatesTables(t *testing.T) {
	for _, stmt := range ddl {
		t.Run(stmt, func(t *testing.T) {
			conn, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer conn.Close()

			mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(0, 0))

			require.NoError(t, db.Migrate(conn))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMigrate_Error(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS admins")).
		WillReturnError(errors.New("permission denied"))

	err = db.Migrate(conn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create schema")
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
