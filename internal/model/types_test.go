package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMailbox_ValidAndTitle(t *testing.T) {
	assert.True(t, Inbox.Valid())
	assert.True(t, Sent.Valid())
	assert.True(t, Archive.Valid())
	assert.False(t, Mailbox("spam").Valid())
	assert.False(t, Mailbox("").Valid())

	assert.Equal(t, "Inbox", Inbox.Title())
	assert.Equal(t, "Archive", Archive.Title())
	assert.Equal(t, "", Mailbox("").Title())
}

func TestDayKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"server layout", "Oct 15 2026, 09:30 AM", "Thu Oct 15 2026"},
		{"unpadded", "Oct 5 2026, 9:30 AM", "Mon Oct 05 2026"},
		{"rfc3339", "2026-10-15T09:30:00Z", "Thu Oct 15 2026"},
		{"unparsable is truncated", "sometime, long ago in a galaxy", "sometime long a"},
		{"short unparsable", "soon", "soon"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DayKey(tc.in))
		})
	}
}

func TestDayKey_SameDayDifferentTimes(t *testing.T) {
	assert.Equal(t, DayKey("Oct 15 2026, 09:30 AM"), DayKey("Oct 15 2026, 11:59 PM"))
	assert.NotEqual(t, DayKey("Oct 15 2026, 09:30 AM"), DayKey("Oct 16 2026, 09:30 AM"))
}

func TestDayKeyOf(t *testing.T) {
	now := time.Date(2026, time.October, 15, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, DayKey(now.Format(TimestampLayout)), DayKeyOf(now))
	assert.Len(t, DayKeyOf(now), 15)
}

func TestDraft_WithPlaceholders(t *testing.T) {
	d := Draft{Recipients: []string{"a@example.com"}}.WithPlaceholders()
	assert.Equal(t, NoSubject, d.Subject)
	assert.Equal(t, NoBody, d.Body)

	blank := Draft{Subject: "  ", Body: "\n"}.WithPlaceholders()
	assert.Equal(t, "  ", blank.Subject)
	assert.Equal(t, "\n", blank.Body)

	kept := Draft{Subject: "hi", Body: "there"}.WithPlaceholders()
	assert.Equal(t, "hi", kept.Subject)
	assert.Equal(t, "there", kept.Body)
}
