package model

import (
	"strings"
	"time"
)

// Mailbox names one of the three partitions the mail API serves.
type Mailbox string

const (
	Inbox   Mailbox = "inbox"
	Sent    Mailbox = "sent"
	Archive Mailbox = "archive"
)

// Mailboxes lists every valid mailbox in display order.
var Mailboxes = []Mailbox{Inbox, Sent, Archive}

// Placeholders substituted for an empty subject or body before sending.
const (
	NoSubject = "(No Subject)"
	NoBody    = "(No Email Body)"
)

func (m Mailbox) Valid() bool {
	switch m {
	case Inbox, Sent, Archive:
		return true
	}
	return false
}

// Title returns the mailbox name with its first letter upper-cased.
func (m Mailbox) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// Message is a single mail item as served by the mail API.
type Message struct {
	ID         int      `json:"id"`
	Sender     string   `json:"sender"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Timestamp  string   `json:"timestamp"` // server formatted, e.g. "Jan 02 2026, 03:04 PM"
	Read       bool     `json:"read"`
	Archived   bool     `json:"archived"`
}

// Patch is a partial update of a message's flags. Nil fields are left alone.
type Patch struct {
	Read     *bool `json:"read,omitempty"`
	Archived *bool `json:"archived,omitempty"`
}

// Draft is the body of a create request.
type Draft struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// WithPlaceholders returns a copy of d with an empty subject or body replaced
// by NoSubject / NoBody.
func (d Draft) WithPlaceholders() Draft {
	if d.Subject == "" {
		d.Subject = NoSubject
	}
	if d.Body == "" {
		d.Body = NoBody
	}
	return d
}

// TimestampLayout is the layout the mail API formats timestamps with.
const TimestampLayout = "Jan 02 2006, 03:04 PM"

// dayKeyLayout renders as exactly dayKeyLen characters.
const (
	dayKeyLayout = "Mon Jan 02 2006"
	dayKeyLen    = 15
)

var timestampLayouts = []string{
	"Jan 02 2006 03:04 PM",
	"Jan 2 2006 3:04 PM",
	time.RFC3339,
}

// DayKey truncates a server timestamp to its calendar day. Commas are removed
// first; if the result parses it is formatted as "Mon Jan 02 2006", otherwise
// its first 15 characters are used as-is.
func DayKey(timestamp string) string {
	s := strings.TrimSpace(strings.ReplaceAll(timestamp, ",", ""))
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dayKeyLayout)
		}
	}
	if len(s) > dayKeyLen {
		return s[:dayKeyLen]
	}
	return s
}

// DayKeyOf is DayKey for a time value.
func DayKeyOf(t time.Time) string {
	return t.Format(dayKeyLayout)
}
