package services

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/mocks"
)

// fakeClock is a settable clock for expiry tests
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 2, 27, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// userStore backs a MockUserRepository with a single-table in-memory map
type userStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newUserStore() *userStore {
	return &userStore{users: map[string]*domain.User{}}
}

func (s *userStore) copyOf(u *domain.User) *domain.User {
	c := *u
	if u.VerificationCodeExpires != nil {
		exp := *u.VerificationCodeExpires
		c.VerificationCodeExpires = &exp
	}
	return &c
}

func (s *userStore) byEmail(email string) *domain.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

// repo returns a mock repository wired to the store
func (s *userStore) repo() *mocks.MockUserRepository {
	r := mocks.NewMockUserRepository()
	r.CreateFunc = func(_ context.Context, user *domain.User) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.byEmail(user.Email) != nil {
			return domain.ErrUserAlreadyExists
		}
		s.seq++
		user.ID = "user-" + strconv.Itoa(s.seq)
		s.users[user.ID] = s.copyOf(user)
		return nil
	}
	r.FindByEmailFunc = func(_ context.Context, email string) (*domain.User, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if u := s.byEmail(email); u != nil {
			return s.copyOf(u), nil
		}
		return nil, domain.ErrUserNotFound
	}
	r.FindByIDFunc = func(_ context.Context, id string) (*domain.User, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if u, ok := s.users[id]; ok {
			return s.copyOf(u), nil
		}
		return nil, domain.ErrUserNotFound
	}
	r.UpdateFunc = func(_ context.Context, user *domain.User) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.users[user.ID]; !ok {
			return domain.ErrUserNotFound
		}
		s.users[user.ID] = s.copyOf(user)
		return nil
	}
	r.DeleteFunc = func(_ context.Context, id string) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		delete(s.users, id)
		return nil
	}
	r.SetVerificationCodeFunc = func(_ context.Context, id, code string, expiresAt time.Time) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.VerificationCode = code
		u.VerificationCodeExpires = &expiresAt
		return nil
	}
	r.MarkVerifiedFunc = func(_ context.Context, id string) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.ClearVerification()
		return nil
	}
	return r
}

// get returns a copy of the stored user with email, or nil
func (s *userStore) get(email string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.byEmail(email); u != nil {
		return s.copyOf(u)
	}
	return nil
}

// put stores user directly
func (s *userStore) put(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = s.copyOf(user)
}

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}
