package db

import (
	"os"
	"strings"
)

// NormalizeDSN trims quotes and whitespace around the configured DSN. Accepts
// either a postgres URL (postgres://...) or a sqlite file path; anything that
// is not a postgres URL is treated as a sqlite path.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	return s
}

// IsPostgres reports whether the DSN selects the postgres driver.
func IsPostgres(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// GetNormalizedDSN fetches DATABASE_DSN from the environment and normalizes it.
func GetNormalizedDSN() string { return NormalizeDSN(os.Getenv("DATABASE_DSN")) }
