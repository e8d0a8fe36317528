package view

import (
	"mailpane/internal/alert"
	"mailpane/internal/model"
)

// User events. The web front-end translates browser actions into these and
// sends them to the program running the Model.

// SelectMailboxMsg shows a mailbox and (re)loads its listing.
type SelectMailboxMsg struct {
	Mailbox model.Mailbox
}

// ComposeMode selects how the compose form is populated.
type ComposeMode int

const (
	ComposeNew ComposeMode = iota
	ComposeReply
	ComposeReplyAll
	ComposeForward
)

func (c ComposeMode) String() string {
	switch c {
	case ComposeReply:
		return "reply"
	case ComposeReplyAll:
		return "reply-all"
	case ComposeForward:
		return "forward"
	default:
		return "new"
	}
}

// ParseComposeMode is the inverse of ComposeMode.String.
func ParseComposeMode(s string) (ComposeMode, bool) {
	for _, m := range []ComposeMode{ComposeNew, ComposeReply, ComposeReplyAll, ComposeForward} {
		if m.String() == s {
			return m, true
		}
	}
	return ComposeNew, false
}

// ComposeMsg opens the compose panel.
type ComposeMsg struct {
	Mode ComposeMode
}

// OpenMessageMsg opens a message from the current mailbox listing.
type OpenMessageMsg struct {
	ID int
}

// SubmitComposeMsg carries the compose form as typed.
type SubmitComposeMsg struct {
	Recipients string
	Subject    string
	Body       string
}

// ToggleArchiveMsg archives or unarchives the open message.
type ToggleArchiveMsg struct{}

// DismissAlertMsg hides one banner.
type DismissAlertMsg struct {
	Kind alert.Kind
}

// Results of API commands. Each command yields exactly one of these.

type mailboxLoadedMsg struct {
	mailbox  model.Mailbox
	messages []model.Message
	err      error
}

type messageFetchedMsg struct {
	mailbox model.Mailbox // mailbox the row was clicked in
	id      int
	message model.Message
	err     error
}

type messageSentMsg struct {
	id  int
	err error
}

// followUp is what to do after a successful update: reload a mailbox and
// flash a notice.
type followUp struct {
	mailbox model.Mailbox
	notice  string
}

type messageUpdatedMsg struct {
	id    int
	patch model.Patch
	then  *followUp // nil for fire-and-forget updates
	err   error
}
