// Package store persists the development mail API's users and emails in
// SQLite. Every email is stored once per owner: the sender keeps a copy and
// so does each recipient, and read/archived flags belong to the copy.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mailpane/internal/model"

	_ "modernc.org/sqlite"
)

var (
	ErrInvalidMailbox = errors.New("invalid mailbox")
	ErrNotFound       = errors.New("email not found")
	ErrNoRecipients   = errors.New("at least one recipient required")
)

// UnknownUserError is returned when an address has no account.
type UnknownUserError struct {
	Email string
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("user with email %s does not exist", e.Email)
}

// SQLiteStore is the dev server's storage backed by a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	loc *time.Location
}

type Option func(*SQLiteStore)

// WithLocation sets the zone timestamps are formatted in. Defaults to local time.
func WithLocation(loc *time.Location) Option {
	return func(s *SQLiteStore) { s.loc = loc }
}

// NewSQLiteStore opens (or creates) the database at the given path and runs
// migrations. ":memory:" opens a private in-memory database.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	inMemory := dbPath == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writes.
	db.SetMaxOpenConns(1)

	if !inMemory {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	email      TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS emails (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	owner      TEXT NOT NULL REFERENCES users(email),
	sender     TEXT NOT NULL REFERENCES users(email),
	subject    TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0,
	archived   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS recipients (
	email_id INTEGER NOT NULL REFERENCES emails(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	address  TEXT NOT NULL,
	PRIMARY KEY (email_id, position)
);

CREATE INDEX IF NOT EXISTS idx_emails_owner_created ON emails(owner, created_at);
CREATE INDEX IF NOT EXISTS idx_recipients_address ON recipients(address);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertUsers creates accounts for the given addresses. Existing accounts are
// left alone.
func (s *SQLiteStore) UpsertUsers(ctx context.Context, emails ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, e := range emails {
		e = normalize(e)
		if e == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (email, created_at) VALUES (?, ?) ON CONFLICT(email) DO NOTHING", e, now); err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) UserExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", normalize(email)).Scan(&n)
	return n > 0, err
}

// NewEmail is an email to deliver.
type NewEmail struct {
	Sender     string
	Recipients []string
	Subject    string
	Body       string
	At         time.Time
}

// CreateEmail stores one copy for the sender and one for each distinct
// recipient, all in one transaction. The sender's copy starts read. It
// returns the id of the sender's copy.
func (s *SQLiteStore) CreateEmail(ctx context.Context, e NewEmail) (int, error) {
	sender := normalize(e.Sender)
	recipients := make([]string, 0, len(e.Recipients))
	for _, r := range e.Recipients {
		if r = normalize(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	if len(recipients) == 0 {
		return 0, ErrNoRecipients
	}
	for _, addr := range append([]string{sender}, recipients...) {
		ok, err := s.UserExists(ctx, addr)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, &UnknownUserError{Email: addr}
		}
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	owners := []string{sender}
	seen := map[string]struct{}{sender: {}}
	for _, r := range recipients {
		if _, ok := seen[r]; !ok {
			seen[r] = struct{}{}
			owners = append(owners, r)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	senderID := 0
	for _, owner := range owners {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO emails (owner, sender, subject, body, created_at, read, archived)
			VALUES (?, ?, ?, ?, ?, ?, 0)`,
			owner, sender, e.Subject, e.Body, e.At.UnixNano(), owner == sender)
		if err != nil {
			return 0, fmt.Errorf("insert email: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		for pos, addr := range recipients {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO recipients (email_id, position, address) VALUES (?, ?, ?)", id, pos, addr); err != nil {
				return 0, fmt.Errorf("insert recipient: %w", err)
			}
		}
		if owner == sender {
			senderID = int(id)
		}
	}
	return senderID, tx.Commit()
}

// ListMailbox returns owner's copies in mailbox, newest first. Inbox and
// archive hold the mail owner received; sent holds the mail owner sent.
func (s *SQLiteStore) ListMailbox(ctx context.Context, owner string, mailbox model.Mailbox) ([]model.Message, error) {
	const received = `EXISTS (SELECT 1 FROM recipients r WHERE r.email_id = e.id AND r.address = e.owner)`
	var where string
	switch mailbox {
	case model.Inbox:
		where = received + " AND e.archived = 0"
	case model.Sent:
		where = "e.sender = e.owner"
	case model.Archive:
		where = received + " AND e.archived = 1"
	default:
		return nil, ErrInvalidMailbox
	}
	query := "SELECT e.id, e.sender, e.subject, e.body, e.created_at, e.read, e.archived FROM emails e WHERE e.owner = ? AND " +
		where + " ORDER BY e.created_at DESC, e.id DESC"
	rows, err := s.db.QueryContext(ctx, query, normalize(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []model.Message{}
	for rows.Next() {
		m, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachRecipients(ctx, msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetEmail returns owner's copy with the given id.
func (s *SQLiteStore) GetEmail(ctx context.Context, owner string, id int) (model.Message, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, sender, subject, body, created_at, read, archived FROM emails WHERE id = ? AND owner = ?", id, normalize(owner))
	m, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Message{}, ErrNotFound
	}
	if err != nil {
		return model.Message{}, err
	}
	msgs := []model.Message{m}
	if err := s.attachRecipients(ctx, msgs); err != nil {
		return model.Message{}, err
	}
	return msgs[0], nil
}

// UpdateEmail applies the non-nil fields of patch to owner's copy.
func (s *SQLiteStore) UpdateEmail(ctx context.Context, owner string, id int, patch model.Patch) error {
	var sets []string
	var args []any
	if patch.Read != nil {
		sets = append(sets, "read = ?")
		args = append(args, *patch.Read)
	}
	if patch.Archived != nil {
		sets = append(sets, "archived = ?")
		args = append(args, *patch.Archived)
	}
	if len(sets) == 0 {
		_, err := s.GetEmail(ctx, owner, id)
		return err
	}
	args = append(args, id, normalize(owner))
	res, err := s.db.ExecContext(ctx, "UPDATE emails SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner = ?", args...)
	if err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scan(row scanner) (model.Message, error) {
	var m model.Message
	var created int64
	if err := row.Scan(&m.ID, &m.Sender, &m.Subject, &m.Body, &created, &m.Read, &m.Archived); err != nil {
		return model.Message{}, err
	}
	m.Timestamp = time.Unix(0, created).In(s.loc).Format(model.TimestampLayout)
	m.Recipients = []string{}
	return m, nil
}

func (s *SQLiteStore) attachRecipients(ctx context.Context, msgs []model.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	index := make(map[int]int, len(msgs))
	placeholders := make([]string, len(msgs))
	args := make([]any, len(msgs))
	for i, m := range msgs {
		index[m.ID] = i
		placeholders[i] = "?"
		args[i] = m.ID
	}
	query := "SELECT email_id, address FROM recipients WHERE email_id IN (" + strings.Join(placeholders, ",") + ") ORDER BY email_id, position"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var addr string
		if err := rows.Scan(&id, &addr); err != nil {
			return err
		}
		i := index[id]
		msgs[i].Recipients = append(msgs[i].Recipients, addr)
	}
	return rows.Err()
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
