package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML fixture the dev server can start from.
type Seed struct {
	Users  []string    `yaml:"users"`
	Emails []SeedEmail `yaml:"emails"`
}

// SeedEmail is one message of a seed. When Raw holds an RFC 5322 message,
// its From, To, Subject, Date and first text/plain part fill the fields left
// empty.
type SeedEmail struct {
	Raw        string    `yaml:"raw"`
	Sender     string    `yaml:"sender"`
	Recipients []string  `yaml:"recipients"`
	Subject    string    `yaml:"subject"`
	Body       string    `yaml:"body"`
	SentAt     time.Time `yaml:"sent_at"`
	// Read and Archived apply to the recipients' copies.
	Read     bool `yaml:"read"`
	Archived bool `yaml:"archived"`
}

// LoadSeedFile reads a seed from a YAML file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &seed, nil
}

// ApplySeed creates the seed's users, then its emails if the database holds
// none yet, so restarting with the same seed does not duplicate mail.
func (s *SQLiteStore) ApplySeed(ctx context.Context, seed *Seed) error {
	users := append([]string{}, seed.Users...)
	for i, e := range seed.Emails {
		e, err := e.resolve()
		if err != nil {
			return fmt.Errorf("seed email %d: %w", i, err)
		}
		users = append(users, e.Sender)
		users = append(users, e.Recipients...)
	}
	if err := s.UpsertUsers(ctx, users...); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM emails").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i, e := range seed.Emails {
		e, err := e.resolve()
		if err != nil {
			return fmt.Errorf("seed email %d: %w", i, err)
		}
		id, err := s.CreateEmail(ctx, NewEmail{
			Sender:     e.Sender,
			Recipients: e.Recipients,
			Subject:    e.Subject,
			Body:       e.Body,
			At:         e.SentAt,
		})
		if err != nil {
			return fmt.Errorf("seed email %d: %w", i, err)
		}
		if !e.Read && !e.Archived {
			continue
		}
		// Recipient copies are inserted right after the sender's.
		if _, err := s.db.ExecContext(ctx,
			"UPDATE emails SET read = ?, archived = ? WHERE id > ? AND owner <> sender",
			e.Read, e.Archived, id); err != nil {
			return err
		}
	}
	return nil
}

func (e SeedEmail) resolve() (SeedEmail, error) {
	if strings.TrimSpace(e.Raw) == "" {
		return e, nil
	}
	reader, err := mail.CreateReader(strings.NewReader(e.Raw))
	if err != nil {
		return e, fmt.Errorf("parse raw message: %w", err)
	}
	defer reader.Close()

	if e.Subject == "" {
		if subject, err := reader.Header.Subject(); err == nil {
			e.Subject = subject
		}
	}
	if e.Sender == "" {
		if from, err := reader.Header.AddressList("From"); err == nil && len(from) > 0 {
			e.Sender = from[0].Address
		}
	}
	if len(e.Recipients) == 0 {
		if to, err := reader.Header.AddressList("To"); err == nil {
			for _, addr := range to {
				e.Recipients = append(e.Recipients, addr.Address)
			}
		}
	}
	if e.SentAt.IsZero() {
		if date, err := reader.Header.Date(); err == nil {
			e.SentAt = date
		}
	}
	if e.Body != "" {
		return e, nil
	}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return e, fmt.Errorf("read raw message: %w", err)
		}
		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType, _, _ := header.ContentType()
		if mediaType != "" && !strings.HasPrefix(mediaType, "text/plain") {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return e, fmt.Errorf("read raw message body: %w", err)
		}
		e.Body = strings.TrimRight(string(body), "\r\n")
		break
	}
	return e, nil
}
