package chat

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/chatwire/chatwire/internal/database"
	"github.com/chatwire/chatwire/internal/stats"
)

const (
	metricActiveConnections = "NumActiveConnections"
	metricActiveRooms       = "NumActiveRooms"
	metricGroupMessages     = "NumGroupMessages"
	metricPrivateMessages   = "NumPrivateMessages"
)

// ChatServer coordinates the connection lifecycle: it owns the presence
// registry, typing tracker, and broadcaster, and funnels every inbound
// event through one handler per event type. Handlers run on the
// connection's own goroutine; the registries serialize concurrent access
// internally, and no handler blocks on I/O while holding a registry lock.
type ChatServer struct {
	log          *log.Logger
	db           database.ChatRepository
	stats        stats.StatsProvider
	presence     *PresenceRegistry
	typing       *TypingTracker
	bcast        *Broadcaster
	historyLimit int

	clients     map[*Client]struct{}
	clientsLock sync.Mutex
	wg          sync.WaitGroup
}

func NewChatServer(logger *log.Logger, db database.ChatRepository, su stats.StatsProvider, historyLimit int) (*ChatServer, error) {
	presence := NewPresenceRegistry()

	cs := &ChatServer{
		log:          logger,
		db:           db,
		stats:        su,
		presence:     presence,
		typing:       NewTypingTracker(),
		bcast:        NewBroadcaster(presence, logger),
		historyLimit: historyLimit,
		clients:      make(map[*Client]struct{}),
	}

	su.RegisterMetric(metricActiveConnections)
	su.RegisterMetric(metricActiveRooms)
	su.RegisterMetric(metricGroupMessages)
	su.RegisterMetric(metricPrivateMessages)

	return cs, nil
}

// RegisterClient records the connection and registers its user in the
// presence registry. This is the connect event.
func (cs *ChatServer) RegisterClient(c *Client) {
	cs.clientsLock.Lock()
	cs.clients[c] = struct{}{}
	cs.clientsLock.Unlock()
	cs.wg.Add(1)

	cs.presence.Register(c, c.username)
	cs.stats.Incr(metricActiveConnections)
	cs.log.Printf("connection %s registered for %q", c.id, c.username)
}

// DeregisterClient tears the connection down. Deregistering a connection
// that was never registered, or twice, is a no-op.
func (cs *ChatServer) DeregisterClient(c *Client) {
	cs.clientsLock.Lock()
	_, ok := cs.clients[c]
	if ok {
		delete(cs.clients, c)
	}
	cs.clientsLock.Unlock()
	if !ok {
		return
	}

	cs.handleDisconnect(c)
	cs.wg.Done()
}

// Shutdown stops all clients and waits for their teardown to finish or ctx
// to expire.
func (cs *ChatServer) Shutdown(ctx context.Context) error {
	cs.clientsLock.Lock()
	for c := range cs.clients {
		c.stopClient()
	}
	cs.clientsLock.Unlock()

	done := make(chan struct{})
	go func() {
		cs.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (cs *ChatServer) handleJoin(c *Client, room string) {
	username, ok := cs.presence.UsernameOf(c)
	if !ok {
		// event raced a disconnect
		return
	}

	if room == "" {
		c.queueMessage(errorMsg("room is required"))
		return
	}

	prev, hadPrev := cs.presence.SetRoom(username, room)
	if hadPrev && prev != room {
		cs.typing.Clear(prev, username)
		cs.bcast.ToRoom(prev, userLeftMsg(username, prev, username+" left the room"))
		if len(cs.presence.MembersOf(prev)) == 0 {
			cs.stats.Decr(metricActiveRooms)
		}
	}

	if !hadPrev || prev != room {
		if len(cs.presence.MembersOf(room)) == 1 {
			cs.stats.Incr(metricActiveRooms)
		}
		cs.bcast.ToRoom(room, userJoinedMsg(username, room, c))
	}

	cs.log.Printf("%q joined room %q", username, room)

	history, err := cs.db.GroupMessages(room, cs.historyLimit)
	if err != nil {
		cs.log.Printf("fetch history for room %q: %v", room, err)
	} else {
		c.queueMessage(roomHistoryMsg(room, history))
	}

	cs.bcast.ToRoom(room, cs.roomUsersMsg(room))
}

func (cs *ChatServer) handleLeave(c *Client) {
	username, ok := cs.presence.UsernameOf(c)
	if !ok {
		return
	}

	room, ok := cs.presence.ClearRoom(username)
	if !ok {
		return
	}

	cs.typing.Clear(room, username)
	cs.log.Printf("%q left room %q", username, room)

	cs.bcast.ToRoom(room, userLeftMsg(username, room, username+" left the room"))
	cs.bcast.ToRoom(room, cs.roomUsersMsg(room))

	if len(cs.presence.MembersOf(room)) == 0 {
		cs.stats.Decr(metricActiveRooms)
	}
}

func (cs *ChatServer) handleGroupMessage(c *Client, body string) {
	username, ok := cs.presence.UsernameOf(c)
	if !ok {
		return
	}

	room, inRoom := cs.presence.RoomOf(username)
	if !inRoom {
		c.queueMessage(errorMsg("you are not in a room"))
		return
	}

	body = strings.TrimSpace(body)
	if body == "" {
		c.queueMessage(errorMsg("message cannot be empty"))
		return
	}

	msg, err := cs.db.AppendGroupMessage(room, username, body)
	if err != nil {
		cs.log.Printf("save group message from %q: %v", username, err)
		c.queueMessage(errorMsg("Failed to send message"))
		return
	}

	cs.typing.Clear(room, username)
	cs.stats.Incr(metricGroupMessages)

	// everyone in the room receives the message, sender included, so the
	// persisted copy is the single source of truth for ordering
	cs.bcast.ToRoom(room, groupMessageView(msg))
}

func (cs *ChatServer) handlePrivateMessage(c *Client, toUser, body string) {
	username, ok := cs.presence.UsernameOf(c)
	if !ok {
		return
	}

	if toUser == "" {
		c.queueMessage(errorMsg("recipient is required"))
		return
	}

	body = strings.TrimSpace(body)
	if body == "" {
		c.queueMessage(errorMsg("message cannot be empty"))
		return
	}

	msg, err := cs.db.AppendPrivateMessage(username, toUser, body)
	if err != nil {
		cs.log.Printf("save private message from %q: %v", username, err)
		c.queueMessage(errorMsg("Failed to send message"))
		return
	}

	cs.stats.Incr(metricPrivateMessages)

	view := privateMessageView(msg)
	if !cs.bcast.ToUser(toUser, view) {
		// recipient offline: dropped, the sender still gets its echo
		cs.log.Printf("private message recipient %q offline", toUser)
	}
	c.queueMessage(view)
}

func (cs *ChatServer) handleTyping(c *Client, signal *TypingSignal) {
	username, ok := cs.presence.UsernameOf(c)
	if !ok {
		return
	}

	if signal.ToUser != "" && signal.Room == "" {
		cs.bcast.ToUser(signal.ToUser, &ServerMessage{
			UserTyping: &UserTyping{
				Username: username,
				IsTyping: signal.IsTyping,
			},
		})
		return
	}

	room, inRoom := cs.presence.RoomOf(username)
	if !inRoom {
		return
	}

	cs.typing.SetTyping(room, username, signal.IsTyping)
	cs.bcast.ToRoom(room, &ServerMessage{
		UserTyping: &UserTyping{
			Username: username,
			Room:     room,
			IsTyping: signal.IsTyping,
		},
		skipClient: c,
	})
}

func (cs *ChatServer) handleDisconnect(c *Client) {
	username, ok := cs.presence.Unregister(c)
	if !ok {
		// never registered, nothing to announce
		return
	}

	cs.stats.Decr(metricActiveConnections)

	room, hadRoom := cs.presence.ClearRoom(username)
	if hadRoom {
		cs.typing.Clear(room, username)
		cs.bcast.ToRoom(room, userLeftMsg(username, room, username+" disconnected"))
		cs.bcast.ToRoom(room, cs.roomUsersMsg(room))

		if len(cs.presence.MembersOf(room)) == 0 {
			cs.stats.Decr(metricActiveRooms)
		}
	}

	cs.log.Printf("connection %s for %q disconnected", c.id, username)
}

func (cs *ChatServer) roomUsersMsg(room string) *ServerMessage {
	return &ServerMessage{
		RoomUsers: &RoomUsers{
			Room:  room,
			Users: cs.presence.MembersOf(room),
		},
	}
}
