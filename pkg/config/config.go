package config

import (
	"fmt"
	"time"
)

type Configuration struct {
	DBHost string
	DBUser string
	DBPass string
	DBName string
	DBSSL  string
	// Identity of this node, paid for every mined block
	NodeID string
	// Websocket URI of the ledger block feed, used by the collector
	LedgerWsURI string
	// Upper bound for a single mining request
	MineTimeout time.Duration
	// Allowed origins for CORS
	AllowedOrigins string
	Port           string
}

// ArchiveEnabled reports whether a Postgres archive is configured.
func (c Configuration) ArchiveEnabled() bool {
	return c.DBHost != ""
}

func (c Configuration) PostgresURI() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s", c.DBUser, c.DBPass,
		c.DBHost, c.DBName, c.DBSSL)
}
