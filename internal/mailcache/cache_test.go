package mailcache

import (
	"testing"

	"mailpane/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Absent(t *testing.T) {
	c := New()
	msgs, ok := c.Get(model.Inbox)
	assert.False(t, ok)
	assert.Nil(t, msgs)
}

func TestPut_ReplacesWholesale(t *testing.T) {
	c := New()
	l1 := []model.Message{{ID: 1, Subject: "one"}, {ID: 2, Subject: "two"}}
	l2 := []model.Message{{ID: 3, Subject: "three"}}

	c.Put(model.Inbox, l1)
	c.Put(model.Inbox, l2)

	got, ok := c.Get(model.Inbox)
	require.True(t, ok)
	assert.Equal(t, l2, got)
}

func TestPut_EmptyListIsAnEntry(t *testing.T) {
	c := New()
	c.Put(model.Sent, nil)
	got, ok := c.Get(model.Sent)
	assert.True(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, []model.Mailbox{model.Sent}, c.Mailboxes())
}

func TestPut_StoresACopy(t *testing.T) {
	c := New()
	msgs := []model.Message{{ID: 1, Recipients: []string{"a@example.com"}}}
	c.Put(model.Inbox, msgs)

	msgs[0].Subject = "changed"
	msgs[0].Recipients[0] = "b@example.com"

	got, _ := c.Get(model.Inbox)
	assert.Equal(t, "", got[0].Subject)
	assert.Equal(t, "a@example.com", got[0].Recipients[0])
}

func TestFindAndApply(t *testing.T) {
	c := New()
	c.Put(model.Inbox, []model.Message{{ID: 1}, {ID: 2}})
	c.Put(model.Archive, []model.Message{{ID: 2}})

	m, ok := c.Find(model.Inbox, 2)
	require.True(t, ok)
	assert.False(t, m.Read)

	_, ok = c.Find(model.Sent, 2)
	assert.False(t, ok)

	assert.True(t, c.Apply(2, func(m *model.Message) { m.Read = true }))
	m, _ = c.Find(model.Inbox, 2)
	assert.True(t, m.Read)
	m, _ = c.Find(model.Archive, 2)
	assert.True(t, m.Read)

	assert.False(t, c.Apply(99, func(m *model.Message) { m.Read = true }))
}
