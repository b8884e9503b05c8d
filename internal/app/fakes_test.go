package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"secondhand-market/internal/model"
	"secondhand-market/internal/pkg/jwtutil"
	"secondhand-market/internal/repository"
)

var errStoreDown = errors.New("store unavailable")

type memUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]model.User
	err    error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uint]model.User{}}
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateKey
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = *user
	return nil
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type memGarmentStore struct {
	mu       sync.Mutex
	nextID   uint
	garments map[uint]model.Garment
	order    []uint
	err      error
}

func newMemGarmentStore() *memGarmentStore {
	return &memGarmentStore{garments: map[uint]model.Garment{}}
}

func (s *memGarmentStore) Create(_ context.Context, garment *model.Garment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.nextID++
	garment.ID = s.nextID
	s.garments[garment.ID] = *garment
	s.order = append(s.order, garment.ID)
	return nil
}

func (s *memGarmentStore) GetByID(_ context.Context, id uint) (*model.Garment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	g, ok := s.garments[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (s *memGarmentStore) filter(keep func(model.Garment) bool) ([]model.Garment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []model.Garment{}
	for _, id := range s.order {
		g, ok := s.garments[id]
		if ok && keep(g) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *memGarmentStore) List(_ context.Context) ([]model.Garment, error) {
	return s.filter(func(model.Garment) bool { return true })
}

func (s *memGarmentStore) ListByType(_ context.Context, garmentType string) ([]model.Garment, error) {
	return s.filter(func(g model.Garment) bool { return g.Type == garmentType })
}

func (s *memGarmentStore) ListByPublisher(_ context.Context, publisherID uint) ([]model.Garment, error) {
	return s.filter(func(g model.Garment) bool { return g.PublisherID == publisherID })
}

func (s *memGarmentStore) Update(_ context.Context, garment *model.Garment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	stored, ok := s.garments[garment.ID]
	if !ok {
		return nil
	}
	stored.Type = garment.Type
	stored.Description = garment.Description
	stored.Size = garment.Size
	stored.Price = garment.Price
	s.garments[garment.ID] = stored
	return nil
}

func (s *memGarmentStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.garments, id)
	return nil
}

type memEventStore struct {
	events []model.GarmentEvent
	err    error
}

func (s *memEventStore) Publish(_ context.Context, event model.GarmentEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *memEventStore) ListByGarmentID(_ context.Context, garmentID uint, limit int) ([]model.GarmentEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []model.GarmentEvent{}
	for _, e := range s.events {
		if e.GarmentID == garmentID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubIssuer struct {
	token     string
	expiresAt time.Time
	issueErr  error
	claims    *jwtutil.Claims
	parseErr  error
}

func (s *stubIssuer) Issue(_ uint, _ string) (string, time.Time, error) {
	return s.token, s.expiresAt, s.issueErr
}

func (s *stubIssuer) Parse(_ string) (*jwtutil.Claims, error) {
	return s.claims, s.parseErr
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, id uint) (*model.Garment, bool, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*model.Garment)
	return g, args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, garment *model.Garment) error {
	return m.Called(ctx, garment).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event model.GarmentEvent) error {
	return m.Called(ctx, event).Error(0)
}
