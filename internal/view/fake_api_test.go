package view

import (
	"context"
	"sync"

	"mailpane/internal/mailapi"
	"mailpane/internal/model"
)

type updateCall struct {
	id    int
	patch model.Patch
}

// fakeAPI is an in-memory mail API. Messages flagged sent appear in the sent
// mailbox; the others appear in inbox or archive depending on their flag.
type fakeAPI struct {
	mu       sync.Mutex
	messages []fakeEntry
	nextID   int

	listErr   error
	getErr    error
	createErr error
	updateErr error

	lists   []model.Mailbox
	gets    []int
	creates []model.Draft
	updates []updateCall
}

type fakeEntry struct {
	msg  model.Message
	sent bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 100}
}

func (f *fakeAPI) addReceived(msgs ...model.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.messages = append(f.messages, fakeEntry{msg: m})
	}
}

func (f *fakeAPI) addSent(msgs ...model.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.messages = append(f.messages, fakeEntry{msg: m, sent: true})
	}
}

func (f *fakeAPI) ListMailbox(_ context.Context, mailbox model.Mailbox) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, mailbox)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if !mailbox.Valid() {
		return nil, &mailapi.StatusError{Op: "list mailbox", StatusCode: 400}
	}
	out := []model.Message{}
	for _, e := range f.messages {
		switch {
		case mailbox == model.Sent && e.sent,
			mailbox == model.Inbox && !e.sent && !e.msg.Archived,
			mailbox == model.Archive && !e.sent && e.msg.Archived:
			out = append(out, e.msg)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetMessage(_ context.Context, id int) (model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, id)
	if f.getErr != nil {
		return model.Message{}, f.getErr
	}
	for _, e := range f.messages {
		if e.msg.ID == id {
			return e.msg, nil
		}
	}
	return model.Message{}, mailapi.ErrNotFound
}

func (f *fakeAPI) CreateMessage(_ context.Context, draft model.Draft) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, draft)
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	f.messages = append(f.messages, fakeEntry{sent: true, msg: model.Message{
		ID:         f.nextID,
		Sender:     "me@example.com",
		Recipients: draft.Recipients,
		Subject:    draft.Subject,
		Body:       draft.Body,
		Timestamp:  "Oct 15 2026, 10:00 AM",
		Read:       true,
	}})
	return f.nextID, nil
}

func (f *fakeAPI) UpdateMessage(_ context.Context, id int, patch model.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{id: id, patch: patch})
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.messages {
		if f.messages[i].msg.ID != id {
			continue
		}
		if patch.Read != nil {
			f.messages[i].msg.Read = *patch.Read
		}
		if patch.Archived != nil {
			f.messages[i].msg.Archived = *patch.Archived
		}
		return nil
	}
	return mailapi.ErrNotFound
}
