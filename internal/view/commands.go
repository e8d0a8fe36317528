package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"mailpane/internal/model"
)

// Commands run off the event loop. Each returns a single result message that
// the runtime hands back to Update.

func (m *Model) listMailboxCmd(name model.Mailbox) tea.Cmd {
	return func() tea.Msg {
		msgs, err := m.api.ListMailbox(m.ctx, name)
		return mailboxLoadedMsg{mailbox: name, messages: msgs, err: err}
	}
}

func (m *Model) fetchMessageCmd(id int) tea.Cmd {
	mailbox := m.mailbox
	return func() tea.Msg {
		msg, err := m.api.GetMessage(m.ctx, id)
		return messageFetchedMsg{mailbox: mailbox, id: id, message: msg, err: err}
	}
}

func (m *Model) sendCmd(draft model.Draft) tea.Cmd {
	return func() tea.Msg {
		id, err := m.api.CreateMessage(m.ctx, draft)
		return messageSentMsg{id: id, err: err}
	}
}

// updateCmd applies patch and only records the outcome.
func (m *Model) updateCmd(id int, patch model.Patch) tea.Cmd {
	return func() tea.Msg {
		err := m.api.UpdateMessage(m.ctx, id, patch)
		return messageUpdatedMsg{id: id, patch: patch, err: err}
	}
}

// updateThenReloadCmd applies patch; on success the result carries the
// mailbox to reload and the notice to flash.
func (m *Model) updateThenReloadCmd(id int, patch model.Patch, then followUp) tea.Cmd {
	return func() tea.Msg {
		err := m.api.UpdateMessage(m.ctx, id, patch)
		return messageUpdatedMsg{id: id, patch: patch, then: &then, err: err}
	}
}
