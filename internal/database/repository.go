package database

import "errors"

// ErrAccountExists is returned by CreateAccount when the username is
// already taken.
var ErrAccountExists = errors.New("account already exists")

type ChatRepository interface {
	Ping() error
	Close() error
	CreateAccount(params CreateAccountParams) (User, error)
	GetAccountByUsername(username string) (User, error)
	AppendGroupMessage(room, fromUser, body string) (GroupMessage, error)
	AppendPrivateMessage(fromUser, toUser, body string) (PrivateMessage, error)
	GroupMessages(room string, limit int) ([]GroupMessage, error)
	PrivateMessages(userA, userB string, limit int) ([]PrivateMessage, error)
}
