package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresURI(t *testing.T) {
	c := Configuration{
		DBHost: "db:5432",
		DBUser: "ledger",
		DBPass: "secret",
		DBName: "archive",
		DBSSL:  "disable",
	}
	assert.True(t, c.ArchiveEnabled())
	assert.Equal(t, "postgres://ledger:secret@db:5432/archive?sslmode=disable", c.PostgresURI())

	assert.False(t, Configuration{}.ArchiveEnabled())
}
