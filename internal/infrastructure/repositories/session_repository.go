package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/metrics"
)

const (
	sessionPrefix     = "session:"
	userSessionPrefix = "user_sessions:"
)

// sessionRecord is the JSON document stored under session:<id>
type sessionRecord struct {
	UserID    string    `json:"user_id"`
	UserAgent string    `json:"user_agent,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionRepositoryImpl keeps sessions in Redis. Each session is a JSON key
// expiring with the session, and user_sessions:<user id> indexes a user's
// session IDs so they can be revoked together.
type SessionRepositoryImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a session repository. ttl applies to sessions
// created without an expiry.
func NewSessionRepository(client *redis.Client, ttl time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{client: client, ttl: ttl}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	ttl := r.ttl
	if !session.ExpiresAt.IsZero() {
		ttl = time.Until(session.ExpiresAt)
	}
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}

	data, err := json.Marshal(sessionRecord{
		UserID:    session.UserID,
		UserAgent: session.UserAgent,
		ClientIP:  session.ClientIP,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	index := userSessionPrefix + session.UserID
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionPrefix+session.ID, data, ttl)
	pipe.SAdd(ctx, index, session.ID)
	// the index lives as long as the user's longest session
	pipe.ExpireNX(ctx, index, ttl)
	pipe.ExpireGT(ctx, index, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	metrics.IncSessions("created", 1)
	return nil
}

// FindByID implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	rec, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        sessionID,
		UserID:    rec.UserID,
		UserAgent: rec.UserAgent,
		ClientIP:  rec.ClientIP,
		ExpiresAt: rec.ExpiresAt,
		CreatedAt: rec.CreatedAt,
	}
	if session.ExpiresAt.Before(time.Now()) {
		r.remove(ctx, rec.UserID, sessionID)
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

// Delete implements domain.SessionRepository. Missing sessions are not an error.
func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	rec, err := r.load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if n := r.remove(ctx, rec.UserID, sessionID); n < 0 {
		return fmt.Errorf("failed to delete session %s", sessionID)
	}
	metrics.IncSessions("revoked", 1)
	return nil
}

// DeleteByUser implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteByUser(ctx context.Context, userID, keepSessionID string) (int, error) {
	ids, err := r.client.SMembers(ctx, userSessionPrefix+userID).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	removed := 0
	for _, id := range ids {
		if id == keepSessionID {
			continue
		}
		n := r.remove(ctx, userID, id)
		if n < 0 {
			return removed, fmt.Errorf("failed to delete session %s", id)
		}
		removed += n
	}

	metrics.IncSessions("revoked", removed)
	return removed, nil
}

func (r *SessionRepositoryImpl) load(ctx context.Context, sessionID string) (*sessionRecord, error) {
	data, err := r.client.Get(ctx, sessionPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &rec, nil
}

// remove deletes a session and its index entry. It returns the number of
// session keys deleted, or -1 when Redis failed.
func (r *SessionRepositoryImpl) remove(ctx context.Context, userID, sessionID string) int {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, sessionPrefix+sessionID)
	pipe.SRem(ctx, userSessionPrefix+userID, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return -1
	}
	return int(del.Val())
}
