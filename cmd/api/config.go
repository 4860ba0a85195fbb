package main

import (
	"os"
	"time"

	"github.com/iov-one/block-ledger/pkg/config"
	"github.com/iov-one/block-ledger/utils"
)

// defaultMineTimeout bounds /api/mine unless MINE_TIMEOUT says otherwise.
const defaultMineTimeout = 30 * time.Second

func loadConfiguration() config.Configuration {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "ledger-node"
	}

	return config.Configuration{
		DBHost:         os.Getenv("POSTGRES_HOST"),
		DBName:         os.Getenv("POSTGRES_DB_NAME"),
		DBUser:         os.Getenv("POSTGRES_USER"),
		DBPass:         os.Getenv("POSTGRES_PASSWORD"),
		DBSSL:          utils.Env("POSTGRES_SSL_ENABLE", "disable"),
		NodeID:         utils.Env("NODE_ID", hostname),
		MineTimeout:    utils.EnvDuration("MINE_TIMEOUT", defaultMineTimeout),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		Port:           utils.Env("PORT", "8000"),
	}
}
