package database

import (
	"github.com/stretchr/testify/mock"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockChatRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockChatRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockChatRepository) GetAccountByUsername(username string) (User, error) {
	args := m.Called(username)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockChatRepository) AppendGroupMessage(room, fromUser, body string) (GroupMessage, error) {
	args := m.Called(room, fromUser, body)
	return args.Get(0).(GroupMessage), args.Error(1)
}

func (m *MockChatRepository) AppendPrivateMessage(fromUser, toUser, body string) (PrivateMessage, error) {
	args := m.Called(fromUser, toUser, body)
	return args.Get(0).(PrivateMessage), args.Error(1)
}

func (m *MockChatRepository) GroupMessages(room string, limit int) ([]GroupMessage, error) {
	args := m.Called(room, limit)
	return args.Get(0).([]GroupMessage), args.Error(1)
}

func (m *MockChatRepository) PrivateMessages(userA, userB string, limit int) ([]PrivateMessage, error) {
	args := m.Called(userA, userB, limit)
	return args.Get(0).([]PrivateMessage), args.Error(1)
}
