package chat

import (
	"sort"
	"sync"
)

// TypingTracker records which users are composing a message in each room.
// It is a plain set: expiry is the client's debounce responsibility, so no
// TTL is kept server-side.
type TypingTracker struct {
	mu    sync.Mutex
	rooms map[string]map[string]struct{}
}

func NewTypingTracker() *TypingTracker {
	return &TypingTracker{
		rooms: make(map[string]map[string]struct{}),
	}
}

// SetTyping adds or removes username from the room's typing set. Repeated
// signals are idempotent.
func (t *TypingTracker) SetTyping(room, username string, isTyping bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !isTyping {
		t.remove(room, username)
		return
	}

	if t.rooms[room] == nil {
		t.rooms[room] = make(map[string]struct{})
	}
	t.rooms[room][username] = struct{}{}
}

// Clear removes username from the room's typing set, cancelling any stale
// indicator on leave, disconnect, or send.
func (t *TypingTracker) Clear(room, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.remove(room, username)
}

func (t *TypingTracker) remove(room, username string) {
	if users, ok := t.rooms[room]; ok {
		delete(users, username)
		if len(users) == 0 {
			delete(t.rooms, room)
		}
	}
}

// TypingIn returns a sorted snapshot of the users typing in room.
func (t *TypingTracker) TypingIn(room string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := make([]string, 0, len(t.rooms[room]))
	for username := range t.rooms[room] {
		users = append(users, username)
	}

	sort.Strings(users)
	return users
}
