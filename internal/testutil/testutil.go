package testutil

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"

	"taskTracker/internal/db"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// OpenInMemoryDB opens an in-memory SQLite database and applies the schema.
// The database is named after the test so parallel packages never share state.
// It is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T) *sqlx.DB {
	t.Helper()
	name := unsafeName.ReplaceAllString(t.Name(), "_")
	// Shared cache keeps every pooled connection on the same in-memory database.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// Logger returns a debug-level logger writing into buf, for asserting on log output.
func Logger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

// SignToken returns an HS256 token carrying the claims the service issues,
// expiring after ttl (negative ttl yields an already expired token).
func SignToken(t *testing.T, secret string, userID int64, username string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"userId":   userID,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
