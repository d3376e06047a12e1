package database

import "time"

type User struct {
	Id           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type GroupMessage struct {
	Id         int
	ExternalId string
	Room       string
	FromUser   string
	Body       string
	SentAt     time.Time
}

type PrivateMessage struct {
	Id         int
	ExternalId string
	FromUser   string
	ToUser     string
	Body       string
	SentAt     time.Time
}

type CreateAccountParams struct {
	Username     string
	PasswordHash string
}
