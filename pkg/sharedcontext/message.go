package sharedcontext

import (
	"time"

	"github.com/helios-engine/helios/pkg/agent"
)

// Message is one entry in the Forest's shared message history. A nil To
// means broadcast to every agent.
type Message struct {
	From      agent.ID
	To        *agent.ID
	Content   string
	Timestamp time.Time
}

// IsBroadcast reports whether this message has no specific recipient.
func (m Message) IsBroadcast() bool {
	return m.To == nil
}

// visibleTo reports whether this message should appear in id's inbox: every
// broadcast, plus every message directly addressed to id (spec.md §4.4:
// "messages_for(agent_id) filters to broadcasts + direct messages").
func (m Message) visibleTo(id agent.ID) bool {
	return m.IsBroadcast() || *m.To == id
}
