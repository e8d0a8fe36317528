package view

import (
	"fmt"
	"html/template"
	"time"

	"mailpane/internal/alert"
	"mailpane/internal/model"
	"mailpane/internal/sanitize"
	"mailpane/internal/util"
)

// Panel is one of the three mutually exclusive top-level views.
type Panel int

const (
	PanelMailbox Panel = iota
	PanelDetail
	PanelCompose
)

func (p Panel) String() string {
	switch p {
	case PanelDetail:
		return "detail"
	case PanelCompose:
		return "compose"
	default:
		return "mailbox"
	}
}

// Document is the rendered state of every panel. Fields typed template.HTML
// hold text that already went through sanitize.Escape.
type Document struct {
	Panel   Panel
	Mailbox MailboxView
	Detail  DetailView
	Compose ComposeView
	Alerts  []alert.Banner
}

// MailboxView is the listing panel.
type MailboxView struct {
	Name    model.Mailbox
	Heading template.HTML
	Unread  int  // messages with read == false in Items; 0 for sent
	Loaded  bool // false until the first listing for Name arrives
	Items   []ListItem
}

// ListItem is either a date divider or a message row.
type ListItem struct {
	Divider template.HTML // set for dividers only
	Row     *Row
}

func (i ListItem) IsDivider() bool { return i.Row == nil }

// Row is the compact listing of one message.
type Row struct {
	ID      int
	Sender  template.HTML
	Date    template.HTML
	Subject template.HTML
	Read    bool
}

// DetailView is the open message.
type DetailView struct {
	ID          int
	Sender      template.HTML
	Recipients  template.HTML
	Subject     template.HTML
	Timestamp   template.HTML
	Body        template.HTML
	Archived    bool
	ShowArchive bool
	ShowReply   bool
}

// ComposeView holds the compose form values as plain text. Rev changes each
// time the controller (re)populates the form.
type ComposeView struct {
	Recipients string
	Subject    string
	Body       string
	Rev        int
}

func escape(s string) template.HTML {
	return template.HTML(sanitize.Escape(s))
}

// todayLabel replaces the first divider's date when it is the current day.
const todayLabel = "Today"

// buildMailboxView renders msgs in the given order. A divider precedes the
// first row and every row whose day differs from the previous row's.
func buildMailboxView(name model.Mailbox, msgs []model.Message, now time.Time) MailboxView {
	v := MailboxView{Name: name, Loaded: true}
	today := model.DayKeyOf(now)
	prev := ""
	unread := 0
	for i, msg := range msgs {
		day := model.DayKey(msg.Timestamp)
		if i == 0 || day != prev {
			label := day
			if i == 0 && day == today {
				label = todayLabel
			}
			v.Items = append(v.Items, ListItem{Divider: escape(label)})
			prev = day
		}
		if !msg.Read {
			unread++
		}
		v.Items = append(v.Items, ListItem{Row: &Row{
			ID:      msg.ID,
			Sender:  escape(msg.Sender),
			Date:    escape(msg.Timestamp),
			Subject: escape(msg.Subject),
			Read:    msg.Read,
		}})
	}
	v.Heading = template.HTML(name.Title())
	if name != model.Sent {
		v.Unread = unread
		v.Heading = template.HTML(fmt.Sprintf("%s (%d)", name.Title(), unread))
	}
	return v
}

// pendingMailboxView is shown while a listing is in flight.
func pendingMailboxView(name model.Mailbox) MailboxView {
	return MailboxView{Name: name, Heading: escape(name.Title())}
}

func buildDetailView(msg model.Message, mailbox model.Mailbox) DetailView {
	actions := mailbox != model.Sent
	return DetailView{
		ID:          msg.ID,
		Sender:      escape(msg.Sender),
		Recipients:  escape(util.JoinRecipients(msg.Recipients)),
		Subject:     escape(msg.Subject),
		Timestamp:   escape(msg.Timestamp),
		Body:        escape(msg.Body),
		Archived:    msg.Archived,
		ShowArchive: actions,
		ShowReply:   actions,
	}
}
