package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/portfolio-importer/api/internal/entity"
	"github.com/octobees/portfolio-importer/api/internal/repository"
)

// memStore is an in-memory ProfileStore. WithinTx restores the previous state
// when fn fails, so rollback behaviour can be asserted.
type memStore struct {
	users   []entity.User
	works   []entity.Work
	clients []entity.Client
	media   []entity.ClientMedia

	failOn  string
	failErr error

	clock     time.Time
	txCount   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memStore) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:   memUsers{m},
		Works:   memWorks{m},
		Clients: memClients{m},
		Media:   memMedia{m},
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	m.txCount++
	users := append([]entity.User(nil), m.users...)
	works := append([]entity.Work(nil), m.works...)
	clients := append([]entity.Client(nil), m.clients...)
	media := append([]entity.ClientMedia(nil), m.media...)

	if err := fn(m.Repositories()); err != nil {
		m.users, m.works, m.clients, m.media = users, works, clients, media
		m.rollbacks++
		return err
	}
	return nil
}

func (m *memStore) fail(op string) error {
	if m.failOn == op {
		if m.failErr != nil {
			return m.failErr
		}
		return errors.New(op + " failed")
	}
	return nil
}

func (m *memStore) now() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) userByName(username string) *entity.User {
	for i := range m.users {
		if m.users[i].Username == username {
			return &m.users[i]
		}
	}
	return nil
}

func (m *memStore) clientMedia(clientID uuid.UUID) []entity.ClientMedia {
	out := []entity.ClientMedia{}
	for _, item := range m.media {
		if item.ClientID == clientID {
			out = append(out, item)
		}
	}
	return out
}

func (m *memStore) deleteClientCascade(id uuid.UUID) {
	kept := m.media[:0:0]
	for _, item := range m.media {
		if item.ClientID != id {
			kept = append(kept, item)
		}
	}
	m.media = kept
}

type memUsers struct{ m *memStore }

func (r memUsers) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if err := r.m.fail("users.find"); err != nil {
		return nil, err
	}
	if user := r.m.userByName(username); user != nil {
		found := *user
		return &found, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r memUsers) Create(ctx context.Context, username, name string) (*entity.User, error) {
	if err := r.m.fail("users.create"); err != nil {
		return nil, err
	}
	if r.m.userByName(username) != nil {
		return nil, repository.ErrUsernameTaken
	}
	ts := r.m.now()
	user := entity.User{ID: uuid.New(), Username: username, Name: &name, SocialURLs: []string{}, CreatedAt: ts, UpdatedAt: ts}
	r.m.users = append(r.m.users, user)
	return &user, nil
}

func (r memUsers) Update(ctx context.Context, id uuid.UUID, fields repository.UserFields) (*entity.User, error) {
	if err := r.m.fail("users.update"); err != nil {
		return nil, err
	}
	for i := range r.m.users {
		if r.m.users[i].ID != id {
			continue
		}
		if fields.Email != nil {
			for _, other := range r.m.users {
				if other.ID != id && other.Email != nil && *other.Email == *fields.Email {
					return nil, repository.ErrEmailDuplicate
				}
			}
		}
		u := r.m.users[i]
		setIf(&u.Name, fields.Name)
		setIf(&u.Email, fields.Email)
		setIf(&u.JobTitle, fields.JobTitle)
		setIf(&u.Phone, fields.Phone)
		setIf(&u.Address, fields.Address)
		setIf(&u.Bio, fields.Bio)
		setIf(&u.Expertise, fields.Expertise)
		setIf(&u.Skills, fields.Skills)
		if fields.SocialURLs != nil {
			u.SocialURLs = append([]string{}, (*fields.SocialURLs)...)
		}
		u.UpdatedAt = r.m.now()
		r.m.users[i] = u
		return &u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r memUsers) DeleteByUsername(ctx context.Context, username string) error {
	user := r.m.userByName(username)
	if user == nil {
		return repository.ErrUserNotFound
	}
	id := user.ID

	users := r.m.users[:0:0]
	for _, u := range r.m.users {
		if u.ID != id {
			users = append(users, u)
		}
	}
	r.m.users = users

	works := r.m.works[:0:0]
	for _, w := range r.m.works {
		if w.UserID != id {
			works = append(works, w)
		}
	}
	r.m.works = works

	clients := r.m.clients[:0:0]
	for _, c := range r.m.clients {
		if c.UserID == id {
			r.m.deleteClientCascade(c.ID)
			continue
		}
		clients = append(clients, c)
	}
	r.m.clients = clients
	return nil
}

func (r memUsers) Search(ctx context.Context, query string, limit int) ([]entity.User, error) {
	if err := r.m.fail("users.search"); err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var out []entity.User
	for _, u := range r.m.users {
		haystack := []string{u.Username, deref(u.Name), deref(u.JobTitle), deref(u.Bio), deref(u.Expertise), deref(u.Skills)}
		for _, h := range haystack {
			if strings.Contains(strings.ToLower(h), q) {
				out = append(out, u)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type memWorks struct{ m *memStore }

func (r memWorks) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Work, error) {
	out := []entity.Work{}
	for _, w := range r.m.works {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r memWorks) Create(ctx context.Context, userID uuid.UUID, fields repository.WorkFields) (*entity.Work, error) {
	if err := r.m.fail("works.create"); err != nil {
		return nil, err
	}
	ts := r.m.now()
	work := entity.Work{ID: uuid.New(), UserID: userID, Title: deref(fields.Title), Description: fields.Description, URL: deref(fields.URL), CreatedAt: ts, UpdatedAt: ts}
	r.m.works = append(r.m.works, work)
	return &work, nil
}

func (r memWorks) Update(ctx context.Context, userID, id uuid.UUID, fields repository.WorkFields) error {
	for i := range r.m.works {
		w := &r.m.works[i]
		if w.ID != id || w.UserID != userID {
			continue
		}
		if fields.Title != nil {
			w.Title = *fields.Title
		}
		setIf(&w.Description, fields.Description)
		if fields.URL != nil {
			w.URL = *fields.URL
		}
		w.UpdatedAt = r.m.now()
		return nil
	}
	return repository.ErrWorkNotFound
}

func (r memWorks) Delete(ctx context.Context, userID, id uuid.UUID) error {
	for i, w := range r.m.works {
		if w.ID == id && w.UserID == userID {
			r.m.works = append(r.m.works[:i:i], r.m.works[i+1:]...)
			return nil
		}
	}
	return repository.ErrWorkNotFound
}

type memClients struct{ m *memStore }

func (r memClients) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Client, error) {
	out := []entity.Client{}
	for _, c := range r.m.clients {
		if c.UserID == userID {
			c.Media = r.m.clientMedia(c.ID)
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memClients) Create(ctx context.Context, userID uuid.UUID, fields repository.ClientFields) (*entity.Client, error) {
	if err := r.m.fail("clients.create"); err != nil {
		return nil, err
	}
	ts := r.m.now()
	client := entity.Client{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         deref(fields.Name),
		PhotoURL:     fields.PhotoURL,
		Introduction: fields.Introduction,
		JobTitle:     fields.JobTitle,
		Feedback:     fields.Feedback,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	r.m.clients = append(r.m.clients, client)
	client.Media = []entity.ClientMedia{}
	return &client, nil
}

func (r memClients) Update(ctx context.Context, userID, id uuid.UUID, fields repository.ClientFields) error {
	for i := range r.m.clients {
		c := &r.m.clients[i]
		if c.ID != id || c.UserID != userID {
			continue
		}
		if fields.Name != nil {
			c.Name = *fields.Name
		}
		setIf(&c.PhotoURL, fields.PhotoURL)
		setIf(&c.Introduction, fields.Introduction)
		setIf(&c.JobTitle, fields.JobTitle)
		setIf(&c.Feedback, fields.Feedback)
		c.UpdatedAt = r.m.now()
		return nil
	}
	return repository.ErrClientNotFound
}

func (r memClients) Delete(ctx context.Context, userID, id uuid.UUID) error {
	for i, c := range r.m.clients {
		if c.ID == id && c.UserID == userID {
			r.m.clients = append(r.m.clients[:i:i], r.m.clients[i+1:]...)
			r.m.deleteClientCascade(id)
			return nil
		}
	}
	return repository.ErrClientNotFound
}

type memMedia struct{ m *memStore }

func (r memMedia) ListByClient(ctx context.Context, clientID uuid.UUID) ([]entity.ClientMedia, error) {
	return r.m.clientMedia(clientID), nil
}

func (r memMedia) Create(ctx context.Context, clientID uuid.UUID, fields repository.MediaFields) (*entity.ClientMedia, error) {
	if err := r.m.fail("media.create"); err != nil {
		return nil, err
	}
	ts := r.m.now()
	media := entity.ClientMedia{
		ID:          uuid.New(),
		ClientID:    clientID,
		URL:         deref(fields.URL),
		Type:        fields.Type,
		Title:       fields.Title,
		Description: fields.Description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	r.m.media = append(r.m.media, media)
	return &media, nil
}

func (r memMedia) Update(ctx context.Context, clientID, id uuid.UUID, fields repository.MediaFields) error {
	for i := range r.m.media {
		md := &r.m.media[i]
		if md.ID != id || md.ClientID != clientID {
			continue
		}
		if fields.URL != nil {
			md.URL = *fields.URL
		}
		setIf(&md.Type, fields.Type)
		setIf(&md.Title, fields.Title)
		setIf(&md.Description, fields.Description)
		md.UpdatedAt = r.m.now()
		return nil
	}
	return repository.ErrMediaNotFound
}

func (r memMedia) Delete(ctx context.Context, clientID, id uuid.UUID) error {
	for i, md := range r.m.media {
		if md.ID == id && md.ClientID == clientID {
			r.m.media = append(r.m.media[:i:i], r.m.media[i+1:]...)
			return nil
		}
	}
	return repository.ErrMediaNotFound
}

func setIf(dst **string, value *string) {
	if value != nil {
		v := *value
		*dst = &v
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func stringPtr(s string) *string { return &s }
