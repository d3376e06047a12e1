package chat

import (
	"sort"
	"sync"
)

// PresenceRegistry holds the live connection state: which user each
// connection belongs to, which room each user occupies, and a reverse
// username index for direct delivery. All mutation happens under one lock
// so a room switch is atomic to observers.
//
// Usernames are not unique across connections. Registration is
// last-write-wins: the reverse index always points at the most recently
// registered connection for a name, and unregistering an older connection
// never steals the index back.
type PresenceRegistry struct {
	mu     sync.RWMutex
	conns  map[*Client]string
	rooms  map[string]string
	byUser map[string]*Client
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		conns:  make(map[*Client]string),
		rooms:  make(map[string]string),
		byUser: make(map[string]*Client),
	}
}

func (p *PresenceRegistry) Register(c *Client, username string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.conns[c] = username
	p.byUser[username] = c
}

// Unregister removes the connection and reports the username it carried.
// Unregistering an unknown connection is a no-op so disconnect races never
// fault.
func (p *PresenceRegistry) Unregister(c *Client) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	username, ok := p.conns[c]
	if !ok {
		return "", false
	}

	delete(p.conns, c)
	if p.byUser[username] == c {
		delete(p.byUser, username)
	}

	return username, true
}

func (p *PresenceRegistry) UsernameOf(c *Client) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	username, ok := p.conns[c]
	return username, ok
}

// SetRoom moves the user to room, returning the previous room if any. A
// user occupies at most one room at a time.
func (p *PresenceRegistry) SetRoom(username, room string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev, ok := p.rooms[username]
	p.rooms[username] = room
	return prev, ok
}

func (p *PresenceRegistry) ClearRoom(username string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev, ok := p.rooms[username]
	if ok {
		delete(p.rooms, username)
	}
	return prev, ok
}

func (p *PresenceRegistry) RoomOf(username string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	room, ok := p.rooms[username]
	return room, ok
}

// MembersOf returns a sorted snapshot of the usernames in room, computed by
// filtering the membership map. Rooms are small, so no reverse index is
// kept.
func (p *PresenceRegistry) MembersOf(room string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	members := make([]string, 0)
	for username, r := range p.rooms {
		if r == room {
			members = append(members, username)
		}
	}

	sort.Strings(members)
	return members
}

// ClientsInRoom returns every live connection whose user is currently in
// room.
func (p *PresenceRegistry) ClientsInRoom(room string) []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var clients []*Client
	for c, username := range p.conns {
		if p.rooms[username] == room {
			clients = append(clients, c)
		}
	}

	return clients
}

// LookupUser resolves the most recently registered connection for username.
func (p *PresenceRegistry) LookupUser(username string) (*Client, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	c, ok := p.byUser[username]
	return c, ok
}
