package database

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/teris-io/shortid"
)

// MemoryChatRepository is an in-memory ChatRepository used in development
// mode and by tests. All methods are safe for concurrent use.
type MemoryChatRepository struct {
	mu       sync.Mutex
	nextId   int
	accounts map[string]User
	group    []GroupMessage
	private  []PrivateMessage

	// now is swappable so tests can control assigned timestamps.
	now func() time.Time
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		accounts: make(map[string]User),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryChatRepository) Ping() error  { return nil }
func (m *MemoryChatRepository) Close() error { return nil }

func (m *MemoryChatRepository) CreateAccount(params CreateAccountParams) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[params.Username]; ok {
		return User{}, fmt.Errorf("create account %q: %w", params.Username, ErrAccountExists)
	}

	m.nextId++
	u := User{
		Id:           m.nextId,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		CreatedAt:    m.now(),
		UpdatedAt:    m.now(),
	}
	m.accounts[u.Username] = u

	return u, nil
}

func (m *MemoryChatRepository) GetAccountByUsername(username string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.accounts[username]
	if !ok {
		return User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *MemoryChatRepository) AppendGroupMessage(room, fromUser, body string) (GroupMessage, error) {
	sid, err := shortid.Generate()
	if err != nil {
		return GroupMessage{}, fmt.Errorf("generate message id: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextId++
	msg := GroupMessage{
		Id:         m.nextId,
		ExternalId: sid,
		Room:       room,
		FromUser:   fromUser,
		Body:       body,
		SentAt:     m.now(),
	}
	m.group = append(m.group, msg)

	return msg, nil
}

func (m *MemoryChatRepository) AppendPrivateMessage(fromUser, toUser, body string) (PrivateMessage, error) {
	sid, err := shortid.Generate()
	if err != nil {
		return PrivateMessage{}, fmt.Errorf("generate message id: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextId++
	msg := PrivateMessage{
		Id:         m.nextId,
		ExternalId: sid,
		FromUser:   fromUser,
		ToUser:     toUser,
		Body:       body,
		SentAt:     m.now(),
	}
	m.private = append(m.private, msg)

	return msg, nil
}

func (m *MemoryChatRepository) GroupMessages(room string, limit int) ([]GroupMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var messages []GroupMessage
	for _, msg := range m.group {
		if msg.Room == room {
			messages = append(messages, msg)
		}
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt.Before(messages[j].SentAt)
	})

	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	return append([]GroupMessage(nil), messages...), nil
}

func (m *MemoryChatRepository) PrivateMessages(userA, userB string, limit int) ([]PrivateMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var messages []PrivateMessage
	for _, msg := range m.private {
		if (msg.FromUser == userA && msg.ToUser == userB) ||
			(msg.FromUser == userB && msg.ToUser == userA) {
			messages = append(messages, msg)
		}
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt.Before(messages[j].SentAt)
	})

	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	return append([]PrivateMessage(nil), messages...), nil
}
