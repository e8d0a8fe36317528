package view

import (
	"fmt"
	"strings"

	"mailpane/internal/sanitize"
	"mailpane/internal/util"
)

const (
	replyPrefix   = "Re: "
	forwardPrefix = "Fwd: "
)

// composeFromDetail fills the compose form from the displayed detail panel.
// The panel holds escaped text, so every field is unescaped on the way back.
func composeFromDetail(d DetailView, mode ComposeMode, self string) ComposeView {
	sender := sanitize.Unescape(string(d.Sender))
	subject := sanitize.Unescape(string(d.Subject))
	body := sanitize.Unescape(string(d.Body))
	timestamp := sanitize.Unescape(string(d.Timestamp))
	recipients := util.SplitRecipients(sanitize.Unescape(string(d.Recipients)))

	switch mode {
	case ComposeReply:
		return ComposeView{
			Recipients: sender,
			Subject:    withPrefix(subject, replyPrefix),
			Body:       quote(timestamp, sender, body),
		}
	case ComposeReplyAll:
		all := util.Dedupe(append([]string{sender}, recipients...), self)
		if len(all) == 0 {
			all = []string{sender}
		}
		return ComposeView{
			Recipients: util.JoinRecipients(all),
			Subject:    withPrefix(subject, replyPrefix),
			Body:       quote(timestamp, sender, body),
		}
	case ComposeForward:
		return ComposeView{
			Subject: withPrefix(subject, forwardPrefix),
			Body:    forwarded(timestamp, sender, util.JoinRecipients(recipients), subject, body),
		}
	default:
		return ComposeView{}
	}
}

// withPrefix prepends prefix unless subject already starts with it, ignoring case.
func withPrefix(subject, prefix string) string {
	if len(subject) >= len(prefix) && strings.EqualFold(subject[:len(prefix)], prefix) {
		return subject
	}
	return prefix + subject
}

func quote(timestamp, sender, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\nOn %s %s wrote:\n", timestamp, sender)
	for _, line := range strings.Split(body, "\n") {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func forwarded(timestamp, sender, recipients, subject, body string) string {
	return fmt.Sprintf("\n\n---------- Forwarded message ----------\nFrom: %s\nDate: %s\nSubject: %s\nTo: %s\n\n%s\n",
		sender, timestamp, subject, recipients, body)
}
