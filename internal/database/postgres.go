package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const connectMaxRetries = 5

type PgChatRepository struct {
	conn *sql.DB
}

// NewPgChatRepository opens a connection pool and verifies connectivity,
// retrying with exponential backoff so the server survives a database that
// is still coming up.
func NewPgChatRepository(dsn string) (*PgChatRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 5 * time.Second
	if err := backoff.Retry(db.Ping, backoff.WithMaxRetries(bo, connectMaxRetries)); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PgChatRepository{conn: db}, nil
}

func (db *PgChatRepository) Ping() error {
	return db.conn.Ping()
}

func (db *PgChatRepository) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
