package chat

import (
	"log"
)

// Broadcaster fans events out to room members and individual users.
// Delivery is at-most-once per connection and never blocks: a peer with a
// full send buffer is skipped, not waited on.
type Broadcaster struct {
	presence *PresenceRegistry
	log      *log.Logger
}

func NewBroadcaster(presence *PresenceRegistry, logger *log.Logger) *Broadcaster {
	return &Broadcaster{
		presence: presence,
		log:      logger,
	}
}

// ToRoom delivers msg to every connection currently in room, honoring
// msg.skipClient.
func (b *Broadcaster) ToRoom(room string, msg *ServerMessage) {
	for _, c := range b.presence.ClientsInRoom(room) {
		if c == msg.skipClient {
			continue
		}

		if !c.queueMessage(msg) {
			b.log.Printf("dropped message for %q in room %q: send buffer full", c.username, room)
		}
	}
}

// ToUser delivers msg to the most recently registered connection for
// username. An offline recipient is silently dropped; there is no queuing.
func (b *Broadcaster) ToUser(username string, msg *ServerMessage) bool {
	c, ok := b.presence.LookupUser(username)
	if !ok {
		return false
	}

	return c.queueMessage(msg)
}
