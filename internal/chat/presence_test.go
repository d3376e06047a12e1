package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceRegistry_RegisterUnregister(t *testing.T) {
	p := NewPresenceRegistry()
	c := &Client{username: "alice"}

	p.Register(c, "alice")

	username, ok := p.UsernameOf(c)
	assert.True(t, ok, "expected connection to be registered")
	assert.Equal(t, "alice", username)

	got, ok := p.LookupUser("alice")
	assert.True(t, ok, "expected reverse index entry for alice")
	assert.Equal(t, c, got)

	username, ok = p.Unregister(c)
	assert.True(t, ok, "expected unregister to find the connection")
	assert.Equal(t, "alice", username)

	_, ok = p.UsernameOf(c)
	assert.False(t, ok, "expected connection to be gone after unregister")
	_, ok = p.LookupUser("alice")
	assert.False(t, ok, "expected reverse index entry to be removed")
}

func TestPresenceRegistry_UnregisterUnknown(t *testing.T) {
	p := NewPresenceRegistry()

	_, ok := p.Unregister(&Client{username: "ghost"})
	assert.False(t, ok, "expected unregistering an unknown connection to be a no-op")
}

func TestPresenceRegistry_DuplicateUsernameLastWins(t *testing.T) {
	p := NewPresenceRegistry()
	first := &Client{username: "alice"}
	second := &Client{username: "alice"}

	p.Register(first, "alice")
	p.Register(second, "alice")

	got, ok := p.LookupUser("alice")
	assert.True(t, ok)
	assert.Equal(t, second, got, "expected the most recent registration to win")

	// Unregistering the older connection must not steal routing back.
	_, ok = p.Unregister(first)
	assert.True(t, ok)
	got, ok = p.LookupUser("alice")
	assert.True(t, ok, "expected reverse index to survive the older connection leaving")
	assert.Equal(t, second, got)
}

func TestPresenceRegistry_SetRoom(t *testing.T) {
	p := NewPresenceRegistry()

	prev, ok := p.SetRoom("alice", "general")
	assert.False(t, ok, "expected no previous room on first join")
	assert.Empty(t, prev)

	prev, ok = p.SetRoom("alice", "random")
	assert.True(t, ok, "expected previous room on switch")
	assert.Equal(t, "general", prev)

	room, ok := p.RoomOf("alice")
	assert.True(t, ok)
	assert.Equal(t, "random", room)

	// A username maps to at most one room.
	assert.Empty(t, p.MembersOf("general"))
	assert.Equal(t, []string{"alice"}, p.MembersOf("random"))
}

func TestPresenceRegistry_ClearRoom(t *testing.T) {
	p := NewPresenceRegistry()
	p.SetRoom("alice", "general")

	prev, ok := p.ClearRoom("alice")
	assert.True(t, ok)
	assert.Equal(t, "general", prev)

	_, ok = p.RoomOf("alice")
	assert.False(t, ok, "expected no room after clear")

	_, ok = p.ClearRoom("alice")
	assert.False(t, ok, "expected clearing twice to be a no-op")
}

func TestPresenceRegistry_MembersOf(t *testing.T) {
	p := NewPresenceRegistry()
	p.SetRoom("carol", "general")
	p.SetRoom("alice", "general")
	p.SetRoom("bob", "random")

	assert.Equal(t, []string{"alice", "carol"}, p.MembersOf("general"), "expected sorted member snapshot")
	assert.Equal(t, []string{"bob"}, p.MembersOf("random"))
	assert.Empty(t, p.MembersOf("empty"))
}

func TestPresenceRegistry_ClientsInRoom(t *testing.T) {
	p := NewPresenceRegistry()
	alice := &Client{username: "alice"}
	bob := &Client{username: "bob"}
	carol := &Client{username: "carol"}

	p.Register(alice, "alice")
	p.Register(bob, "bob")
	p.Register(carol, "carol")
	p.SetRoom("alice", "general")
	p.SetRoom("bob", "general")
	p.SetRoom("carol", "random")

	clients := p.ClientsInRoom("general")
	assert.Len(t, clients, 2)
	assert.Contains(t, clients, alice)
	assert.Contains(t, clients, bob)
	assert.NotContains(t, clients, carol)
}

func TestPresenceRegistry_ConcurrentJoins(t *testing.T) {
	p := NewPresenceRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			username := fmt.Sprintf("user%02d", n)
			p.Register(&Client{username: username}, username)
			p.SetRoom(username, "general")
		}(i)
	}
	wg.Wait()

	assert.Len(t, p.MembersOf("general"), 50, "expected no lost updates from concurrent joins")
}
