// Package mailcache keeps the last fetched listing of each mailbox.
package mailcache

import "mailpane/internal/model"

// Cache maps a mailbox name to the message list of its most recent
// successful fetch. Entries are replaced wholesale, never merged. There is no
// eviction; the key space is the three mailbox names.
//
// Cache is not safe for concurrent use. When two fetches of the same mailbox
// overlap, whichever result is stored last wins.
type Cache struct {
	entries map[model.Mailbox][]model.Message
}

func New() *Cache {
	return &Cache{entries: make(map[model.Mailbox][]model.Message)}
}

// Get returns a copy of the cached list for name.
func (c *Cache) Get(name model.Mailbox) ([]model.Message, bool) {
	msgs, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return clone(msgs), true
}

// Put replaces the entry for name with a copy of msgs.
func (c *Cache) Put(name model.Mailbox, msgs []model.Message) {
	c.entries[name] = clone(msgs)
}

// Find returns the message with id from the entry for name.
func (c *Cache) Find(name model.Mailbox, id int) (model.Message, bool) {
	for _, m := range c.entries[name] {
		if m.ID == id {
			return cloneMessage(m), true
		}
	}
	return model.Message{}, false
}

// Apply mutates every cached copy of message id in place. It reports whether
// any copy was found.
func (c *Cache) Apply(id int, fn func(*model.Message)) bool {
	found := false
	for _, msgs := range c.entries {
		for i := range msgs {
			if msgs[i].ID == id {
				fn(&msgs[i])
				found = true
			}
		}
	}
	return found
}

// Mailboxes returns the names that have an entry.
func (c *Cache) Mailboxes() []model.Mailbox {
	var out []model.Mailbox
	for _, name := range model.Mailboxes {
		if _, ok := c.entries[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

func clone(msgs []model.Message) []model.Message {
	if msgs == nil {
		return []model.Message{}
	}
	out := make([]model.Message, len(msgs))
	for i, m := range msgs {
		out[i] = cloneMessage(m)
	}
	return out
}

func cloneMessage(m model.Message) model.Message {
	m.Recipients = append([]string(nil), m.Recipients...)
	return m
}
