package store

import (
	"database/sql"
	"fmt"
	"strings"
)

func EnsureSchema(pg *sql.DB) error {
	tx, err := pg.Begin()
	if err != nil {
		return fmt.Errorf("transaction begin: %s", err)
	}

	for _, query := range strings.Split(schema, "\n---\n") {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}

		if _, err := tx.Exec(query); err != nil {
			_ = tx.Rollback()
			return &QueryError{Query: query, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit: %s", err)
	}

	return nil
}

// Proofs and amounts are unsigned 64 bit values, which do not fit BIGINT.
const schema = `

CREATE TABLE IF NOT EXISTS blocks (
	block_index BIGINT NOT NULL PRIMARY KEY,
	block_hash TEXT NOT NULL UNIQUE,
	previous_hash TEXT NOT NULL,
	block_time BIGINT NOT NULL,
	proof NUMERIC(20, 0) NOT NULL
);

---

CREATE TABLE IF NOT EXISTS transactions (
	id BIGSERIAL PRIMARY KEY,
	block_id BIGINT NOT NULL REFERENCES blocks(block_index),
	position INT NOT NULL,
	sender TEXT NOT NULL,
	recipient TEXT NOT NULL,
	amount NUMERIC(20, 0) NOT NULL,
	UNIQUE (block_id, position)
);

---

CREATE INDEX IF NOT EXISTS transactions_sender_idx ON transactions (sender);

---

CREATE INDEX IF NOT EXISTS transactions_recipient_idx ON transactions (recipient);
`

type QueryError struct {
	Query string
	Args  []interface{}
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %s\n%q", e.Err, e.Query)
}
