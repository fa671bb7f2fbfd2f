// Package digest accumulates extracted message text per conversation and
// tracks messages that are waiting on a follow-up result (a media fetch, for
// example). All state lives in a Coordinator and is removed explicitly.
package digest

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Pending is a message waiting for its result
type Pending struct {
	MessageID    string
	Conversation string
	Kind         string
	QueuedAt     time.Time
}

// Coordinator owns per-conversation lines and pending results. It is safe
// for concurrent use.
type Coordinator struct {
	mu            sync.Mutex
	conversations map[string][]string
	pending       map[string]Pending

	extractor *Extractor
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithLogger sets the logger used for eviction events
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithExtractor sets the extractor used by Process
func WithExtractor(e *Extractor) Option {
	return func(c *Coordinator) { c.extractor = e }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator creates an empty coordinator
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		conversations: make(map[string][]string),
		pending:       make(map[string]Pending),
		extractor:     NewExtractor(),
		logger:        zerolog.Nop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Append adds a line to a conversation
func (c *Coordinator) Append(conversation, line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations[conversation] = append(c.conversations[conversation], line)
}

// Lines returns a copy of the lines of a conversation
func (c *Coordinator) Lines(conversation string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := c.conversations[conversation]
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

// Text returns the lines of a conversation joined by newlines
func (c *Coordinator) Text(conversation string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.conversations[conversation], "\n")
}

// Conversations returns the ids of conversations holding lines, sorted
func (c *Coordinator) Conversations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.conversations))
	for id := range c.conversations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Queue records a message awaiting its result. A zero QueuedAt is set to
// the current time. Queuing the same id again replaces the entry.
func (c *Coordinator) Queue(messageID string, p Pending) {
	p.MessageID = messageID
	if p.QueuedAt.IsZero() {
		p.QueuedAt = c.now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[messageID] = p
}

// Resolve removes and returns the pending entry for a message once its
// result has arrived
func (c *Coordinator) Resolve(messageID string) (Pending, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[messageID]
	if ok {
		delete(c.pending, messageID)
	}
	return p, ok
}

// PendingCount returns the number of unresolved messages
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Clear evicts a conversation's lines and every pending entry belonging to
// it. It returns the number of pending entries dropped.
func (c *Coordinator) Clear(conversation string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conversations, conversation)

	dropped := 0
	for id, p := range c.pending {
		if p.Conversation == conversation {
			delete(c.pending, id)
			dropped++
		}
	}
	c.logger.Debug().
		Str("conversation", conversation).
		Int("pending_dropped", dropped).
		Msg("conversation cleared")
	return dropped
}

// Expire drops pending entries queued before cutoff and returns how many
// were dropped
func (c *Coordinator) Expire(cutoff time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for id, p := range c.pending {
		if p.QueuedAt.Before(cutoff) {
			delete(c.pending, id)
			dropped++
			c.logger.Debug().
				Str("message_id", id).
				Str("conversation", p.Conversation).
				Msg("pending result expired")
		}
	}
	return dropped
}

// Process extracts a message, appends the line to its conversation and
// returns the conversation's accumulated text. Messages whose rule awaits a
// result are queued as pending.
func (c *Coordinator) Process(msg Message) string {
	if line, ok := c.extractor.Extract(msg); ok {
		c.Append(msg.Conversation, line)
	}
	if rule, ok := c.extractor.Rule(msg.Kind); ok && rule.Await {
		c.Queue(msg.ID, Pending{Conversation: msg.Conversation, Kind: msg.Kind})
	}
	return c.Text(msg.Conversation)
}
