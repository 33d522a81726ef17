package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/mail"
	"github.com/spec-kit/chat-service/internal/repository"
)

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[string]domain.User
	createErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[string]domain.User)}
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.CreatedAt = time.Now()
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Approve(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsApproved = true
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeMessages struct {
	mu   sync.Mutex
	rows []domain.Message
}

func (f *fakeMessages) Create(_ context.Context, m *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = int64(len(f.rows) + 1)
	m.Timestamp = time.Now().UTC()
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeMessages) List(_ context.Context) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Message(nil), f.rows...), nil
}

func (f *fakeMessages) SoftDelete(_ context.Context, id int64, placeholder string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			text := placeholder
			f.rows[i].IsDeleted = true
			f.rows[i].Text = &text
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeQuestions struct {
	mu   sync.Mutex
	rows []domain.VivaQuestion
}

func (f *fakeQuestions) Create(_ context.Context, q *domain.VivaQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q.ID = int64(len(f.rows) + 1)
	q.Timestamp = time.Now().UTC()
	f.rows = append(f.rows, *q)
	return nil
}

func (f *fakeQuestions) List(_ context.Context) ([]domain.VivaQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.VivaQuestion(nil), f.rows...), nil
}

func (f *fakeQuestions) SoftDelete(_ context.Context, id int64, placeholder string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].IsDeleted = true
			f.rows[i].QuestionText = placeholder
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeSettings struct {
	values map[string]bool
}

func (f *fakeSettings) List(_ context.Context) ([]domain.Setting, error) {
	out := make([]domain.Setting, 0, len(f.values))
	for k, v := range f.values {
		out = append(out, domain.Setting{Name: k, Value: v})
	}
	return out, nil
}

func (f *fakeSettings) Update(_ context.Context, name string, value bool) error {
	if _, ok := f.values[name]; !ok {
		return repository.ErrNotFound
	}
	f.values[name] = value
	return nil
}

// recorder captures every event published on a dispatcher.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func newRecordingDispatcher() (events.Dispatcher, *recorder) {
	d := events.NewInMemoryDispatcher()
	r := &recorder{}
	for _, t := range append([]events.EventType{events.EventRegistrationPending}, events.BroadcastTypes...) {
		d.Subscribe(t, func(_ context.Context, e events.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, e)
			return nil
		})
	}
	return d, r
}

func (r *recorder) ofType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) messages() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message(nil), f.sent...)
}

var errStoreDown = errors.New("store down")
