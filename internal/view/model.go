// Package view is the webmail view-state machine. Model implements tea.Model
// and is meant to run inside a headless Bubble Tea program, which provides
// the single event loop: user events and API results are all applied by
// Update, one at a time.
package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mailpane/internal/alert"
	"mailpane/internal/mailapi"
	"mailpane/internal/mailcache"
	"mailpane/internal/model"
	"mailpane/internal/util"
)

// MailAPI is the remote email storage the controller drives.
type MailAPI interface {
	ListMailbox(ctx context.Context, mailbox model.Mailbox) ([]model.Message, error)
	GetMessage(ctx context.Context, id int) (model.Message, error)
	CreateMessage(ctx context.Context, draft model.Draft) (int, error)
	UpdateMessage(ctx context.Context, id int, patch model.Patch) error
}

// Publisher receives the rendered document after every update.
type Publisher interface {
	Publish(html string)
}

// User-facing texts.
const (
	msgNoRecipient   = "Please add a valid recipient!"
	msgRejectSuffix  = "Please check the recipients and try again."
	msgSent          = "Email sent successfully!"
	msgArchived      = "Email has been archived!"
	msgUnarchived    = "Archived email moved back to inbox!"
	msgEmptyMailbox  = "No items currently in your %s mailbox!"
	msgSendFailed    = "Email could not be sent: %v"
	msgUpdateFailed  = "Email could not be updated: %v"
	msgOpenFailed    = "Email could not be opened: %v"
	msgMailboxFailed = "Mailbox could not be loaded: %v"
)

// Model is the controller state. It is created once per session; all of
// its fields are owned by the event loop.
type Model struct {
	api       MailAPI
	ctx       context.Context
	cache     *mailcache.Cache
	alerts    *alert.Presenter
	logger    *slog.Logger
	publisher Publisher
	now       func() time.Time
	self      string

	mailbox model.Mailbox // last mailbox selected; empty before the first
	panel   Panel
	list    MailboxView
	detail  DetailView
	open    *model.Message
	compose ComposeView
}

type Option func(*Model)

// WithContext sets the context API calls run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

func WithPublisher(p Publisher) Option {
	return func(m *Model) { m.publisher = p }
}

// WithClock replaces time.Now for the "Today" divider.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithSelf sets the user's own address, left out of reply-all recipients.
func WithSelf(addr string) Option {
	return func(m *Model) { m.self = addr }
}

func New(api MailAPI, opts ...Option) *Model {
	m := &Model{
		api:    api,
		ctx:    context.Background(),
		cache:  mailcache.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.alerts = alert.NewPresenter(m.logger)
	return m
}

// NewProgram wraps m in a Bubble Tea program with no terminal attached.
func NewProgram(ctx context.Context, m *Model) *tea.Program {
	return tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
}

// Init loads the inbox.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return SelectMailboxMsg{Mailbox: model.Inbox} }
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if m.publisher != nil {
		m.publisher.Publish(m.View())
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SelectMailboxMsg:
		return m.selectMailbox(msg.Mailbox)
	case ComposeMsg:
		return m.openCompose(msg.Mode)
	case OpenMessageMsg:
		return m.openMessage(msg.ID)
	case SubmitComposeMsg:
		return m.submit(msg)
	case ToggleArchiveMsg:
		return m.toggleArchive()
	case DismissAlertMsg:
		m.alerts.Dismiss(msg.Kind)
		return nil

	case mailboxLoadedMsg:
		return m.mailboxLoaded(msg)
	case messageFetchedMsg:
		return m.messageFetched(msg)
	case messageSentMsg:
		return m.messageSent(msg)
	case messageUpdatedMsg:
		return m.messageUpdated(msg)
	}
	return nil
}

// Document returns the current rendered state.
func (m *Model) Document() Document {
	return Document{
		Panel:   m.panel,
		Mailbox: m.list,
		Detail:  m.detail,
		Compose: m.compose,
		Alerts:  m.alerts.Banners(),
	}
}

// Mailbox returns the last selected mailbox.
func (m *Model) Mailbox() model.Mailbox { return m.mailbox }

// Panel returns the visible panel.
func (m *Model) Panel() Panel { return m.panel }

// Alert returns the visible banner, if any.
func (m *Model) Alert() (alert.Banner, bool) { return m.alerts.Visible() }

// Cache exposes the mailbox cache.
func (m *Model) Cache() *mailcache.Cache { return m.cache }

func (m *Model) ignore(event string) tea.Cmd {
	m.logger.Debug("event ignored", "event", event, "panel", m.panel.String(), "mailbox", string(m.mailbox))
	return nil
}

func (m *Model) selectMailbox(name model.Mailbox) tea.Cmd {
	m.alerts.HideAll()
	m.panel = PanelMailbox
	m.mailbox = name
	m.open = nil
	m.list = pendingMailboxView(name)
	return m.listMailboxCmd(name)
}

func (m *Model) mailboxLoaded(msg mailboxLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Error("list mailbox", "mailbox", string(msg.mailbox), "error", msg.err)
		if msg.mailbox != m.mailbox {
			return nil
		}
		m.alerts.Flash(alert.Danger, fmt.Sprintf(msgMailboxFailed, msg.err))
		return nil
	}
	m.cache.Put(msg.mailbox, msg.messages)
	if msg.mailbox != m.mailbox {
		m.logger.Debug("listing cached for a mailbox no longer shown", "mailbox", string(msg.mailbox))
		return nil
	}
	m.list = buildMailboxView(msg.mailbox, msg.messages, m.now())
	if len(msg.messages) == 0 && m.panel == PanelMailbox {
		m.alerts.Flash(alert.Warning, fmt.Sprintf(msgEmptyMailbox, msg.mailbox))
	}
	return nil
}

func (m *Model) openMessage(id int) tea.Cmd {
	if m.panel != PanelMailbox {
		return m.ignore("open message")
	}
	msg, ok := m.cache.Find(m.mailbox, id)
	if !ok {
		return m.fetchMessageCmd(id)
	}
	return m.showMessage(msg)
}

// messageFetched shows a fetched message, unless the user has since left the
// mailbox the row was clicked in.
func (m *Model) messageFetched(msg messageFetchedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Error("get email", "id", msg.id, "error", msg.err)
	}
	if m.panel != PanelMailbox || msg.mailbox != m.mailbox {
		return m.ignore("fetched message")
	}
	if msg.err != nil {
		m.alerts.Flash(alert.Danger, fmt.Sprintf(msgOpenFailed, msg.err))
		return nil
	}
	return m.showMessage(msg.message)
}

// showMessage renders the detail panel and, for an unread message, marks it
// read on the server without waiting for the outcome.
func (m *Model) showMessage(msg model.Message) tea.Cmd {
	m.alerts.HideAll()
	m.panel = PanelDetail
	m.open = &msg
	m.detail = buildDetailView(msg, m.mailbox)
	if msg.Read {
		return nil
	}
	read := true
	return m.updateCmd(msg.ID, model.Patch{Read: &read})
}

func (m *Model) openCompose(mode ComposeMode) tea.Cmd {
	rev := m.compose.Rev + 1
	if mode == ComposeNew {
		m.alerts.HideAll()
		m.panel = PanelCompose
		m.compose = ComposeView{Rev: rev}
		return nil
	}
	if m.panel != PanelDetail || m.open == nil {
		return m.ignore("compose " + mode.String())
	}
	m.alerts.HideAll()
	m.panel = PanelCompose
	m.compose = composeFromDetail(m.detail, mode, m.self)
	m.compose.Rev = rev
	return nil
}

func (m *Model) submit(msg SubmitComposeMsg) tea.Cmd {
	if m.panel != PanelCompose {
		return m.ignore("submit")
	}
	m.compose.Recipients = msg.Recipients
	m.compose.Subject = msg.Subject
	m.compose.Body = msg.Body

	recipients := util.SplitRecipients(msg.Recipients)
	if len(recipients) == 0 {
		m.alerts.Flash(alert.Warning, msgNoRecipient)
		return nil
	}
	draft := model.Draft{Recipients: recipients, Subject: msg.Subject, Body: msg.Body}.WithPlaceholders()
	return m.sendCmd(draft)
}

func (m *Model) messageSent(msg messageSentMsg) tea.Cmd {
	if msg.err != nil {
		if mailapi.IsRejected(msg.err) {
			m.alerts.Flash(alert.Warning, fmt.Sprintf("%v %s", msg.err, msgRejectSuffix))
		} else {
			m.logger.Error("create email", "error", msg.err)
			m.alerts.Flash(alert.Danger, fmt.Sprintf(msgSendFailed, msg.err))
		}
		return nil
	}
	m.logger.Info("email sent", "id", msg.id)
	m.compose = ComposeView{Rev: m.compose.Rev + 1}
	cmd := m.selectMailbox(model.Sent)
	m.alerts.Flash(alert.Success, msgSent)
	return cmd
}

// toggleArchive flips the archived flag of the open message. Archiving
// returns to the inbox, unarchiving returns to the archive.
func (m *Model) toggleArchive() tea.Cmd {
	if m.panel != PanelDetail || m.open == nil || m.mailbox == model.Sent {
		return m.ignore("toggle archive")
	}
	archived := !m.open.Archived
	then := followUp{mailbox: model.Inbox, notice: msgArchived}
	if !archived {
		then = followUp{mailbox: model.Archive, notice: msgUnarchived}
	}
	return m.updateThenReloadCmd(m.open.ID, model.Patch{Archived: &archived}, then)
}

func (m *Model) messageUpdated(msg messageUpdatedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Error("update email", "id", msg.id, "error", msg.err)
		m.alerts.Flash(alert.Danger, fmt.Sprintf(msgUpdateFailed, msg.err))
		return nil
	}
	apply := func(mm *model.Message) {
		if msg.patch.Read != nil {
			mm.Read = *msg.patch.Read
		}
		if msg.patch.Archived != nil {
			mm.Archived = *msg.patch.Archived
		}
	}
	m.cache.Apply(msg.id, apply)
	if m.open != nil && m.open.ID == msg.id {
		apply(m.open)
	}
	if msg.then == nil {
		return nil
	}
	cmd := m.selectMailbox(msg.then.mailbox)
	m.alerts.Flash(alert.Success, msg.then.notice)
	return cmd
}
