package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/teris-io/shortid"
)

const defaultHistoryLimit = 50

func (db *PgChatRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO accounts (username, password_hash, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $3) RETURNING id, username, created_at, updated_at",
		params.Username,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return User{}, fmt.Errorf("create account %q: %w", params.Username, ErrAccountExists)
		}
		return User{}, err
	}

	return u, nil
}

func (db *PgChatRepository) GetAccountByUsername(username string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at, updated_at FROM accounts "+
			"WHERE username = $1 LIMIT 1",
		username,
	)

	var u User
	err := row.Scan(
		&u.Id,
		&u.Username,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (db *PgChatRepository) AppendGroupMessage(room, fromUser, body string) (GroupMessage, error) {
	sid, err := shortid.Generate()
	if err != nil {
		return GroupMessage{}, fmt.Errorf("generate message id: %w", err)
	}

	res := db.conn.QueryRow(
		"INSERT INTO group_messages (external_id, room, from_user, body, sent_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, external_id, room, from_user, body, sent_at",
		sid,
		room,
		fromUser,
		body,
		time.Now().UTC(),
	)

	var msg GroupMessage
	err = res.Scan(
		&msg.Id,
		&msg.ExternalId,
		&msg.Room,
		&msg.FromUser,
		&msg.Body,
		&msg.SentAt,
	)

	return msg, err
}

func (db *PgChatRepository) AppendPrivateMessage(fromUser, toUser, body string) (PrivateMessage, error) {
	sid, err := shortid.Generate()
	if err != nil {
		return PrivateMessage{}, fmt.Errorf("generate message id: %w", err)
	}

	res := db.conn.QueryRow(
		"INSERT INTO private_messages (external_id, from_user, to_user, body, sent_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, external_id, from_user, to_user, body, sent_at",
		sid,
		fromUser,
		toUser,
		body,
		time.Now().UTC(),
	)

	var msg PrivateMessage
	err = res.Scan(
		&msg.Id,
		&msg.ExternalId,
		&msg.FromUser,
		&msg.ToUser,
		&msg.Body,
		&msg.SentAt,
	)

	return msg, err
}

// GroupMessages returns the most recent limit messages for a room in
// ascending sent order.
func (db *PgChatRepository) GroupMessages(room string, limit int) ([]GroupMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := db.conn.Query(
		"SELECT id, external_id, room, from_user, body, sent_at FROM group_messages "+
			"WHERE room = $1 ORDER BY sent_at DESC, id DESC LIMIT $2",
		room,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]GroupMessage, 0, limit)
	for rows.Next() {
		var msg GroupMessage
		if err = rows.Scan(&msg.Id, &msg.ExternalId, &msg.Room, &msg.FromUser, &msg.Body, &msg.SentAt); err != nil {
			return nil, err
		}

		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reverseGroup(messages)
	return messages, nil
}

// PrivateMessages returns the most recent limit messages exchanged between
// userA and userB in either direction, ascending sent order.
func (db *PgChatRepository) PrivateMessages(userA, userB string, limit int) ([]PrivateMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := db.conn.Query(
		"SELECT id, external_id, from_user, to_user, body, sent_at FROM private_messages "+
			"WHERE (from_user = $1 AND to_user = $2) OR (from_user = $2 AND to_user = $1) "+
			"ORDER BY sent_at DESC, id DESC LIMIT $3",
		userA,
		userB,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]PrivateMessage, 0, limit)
	for rows.Next() {
		var msg PrivateMessage
		if err = rows.Scan(&msg.Id, &msg.ExternalId, &msg.FromUser, &msg.ToUser, &msg.Body, &msg.SentAt); err != nil {
			return nil, err
		}

		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reversePrivate(messages)
	return messages, nil
}

func reverseGroup(msgs []GroupMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}

func reversePrivate(msgs []PrivateMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
