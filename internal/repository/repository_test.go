package repository

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// sqlite mirror of migrations/0001_init.sql, restricted to what the queries touch.
const testSchema = `
CREATE TABLE verification_code (
    id         CHAR(36)     NOT NULL PRIMARY KEY,
    email      VARCHAR(254) NOT NULL,
    purpose    VARCHAR(16)  NOT NULL,
    code       VARCHAR(10)  NOT NULL,
    used       BOOLEAN      NOT NULL DEFAULT 0,
    used_at    DATETIME     NULL,
    created_at DATETIME     NOT NULL,
    expires_at DATETIME     NOT NULL
);
CREATE TABLE user (
    id                CHAR(36)     NOT NULL PRIMARY KEY,
    email             VARCHAR(254) NOT NULL UNIQUE,
    password_hash     VARCHAR(255) NOT NULL,
    full_name         VARCHAR(255) NOT NULL,
    course            VARCHAR(128) NULL,
    phone_number      VARCHAR(32)  NULL,
    year              VARCHAR(16)  NULL,
    semester          VARCHAR(16)  NULL,
    email_verified_at DATETIME     NULL,
    created_at        DATETIME     NOT NULL,
    updated_at        DATETIME     NOT NULL
);
CREATE TABLE refresh_session (
    id            CHAR(36)     NOT NULL PRIMARY KEY,
    user_id       CHAR(36)     NOT NULL,
    refresh_token CHAR(36)     NOT NULL,
    user_agent    VARCHAR(512) NOT NULL,
    ip            VARCHAR(64)  NOT NULL,
    expires_at    DATETIME     NOT NULL,
    created_at    DATETIME     NOT NULL
);
`

// baseTime is whole-second UTC so sqlite's text timestamps compare in order.
var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
